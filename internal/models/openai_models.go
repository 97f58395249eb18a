package models

// OpenAISentimentResponse is the JSON object the model is asked to produce.
type OpenAISentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
