package models

import "time"

type SentimentRequest struct {
	Text string `json:"text"`
}

type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentEvent is what gets published for every analyzed request.
type SentimentEvent struct {
	SentimentResult
	Text       string    `json:"text"`
	Backend    string    `json:"backend"`
	Cached     bool      `json:"cached"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
