package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	VADER_POSITIVE_THRESHOLD = 0.20
	VADER_NEGATIVE_THRESHOLD = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))

	return strings.Join(strings.Fields(RemoveLinks(plainText)), " ")
}

// VaderClassifier scores text with the VADER lexicon. The score is the
// compound polarity in [-1, 1].
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentiment := v.analyzer.PolarityScores(ConvertMarkdownToText(text))
	score := sentiment.Compound

	var label string
	if score >= VADER_POSITIVE_THRESHOLD {
		label = "POSITIVE"
	} else if score <= VADER_NEGATIVE_THRESHOLD {
		label = "NEGATIVE"
	} else {
		label = "NEUTRAL"
	}

	return []Prediction{{Label: label, Score: score}}, nil
}
