package insight

import (
	"encoding/json"
	"strings"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

const (
	PlaceholderSummary = "Analysis available, but format was unexpected."
	PlaceholderSignal  = "Market Volatility"
)

// DecodeError is returned when the model text is not JSON even after
// removing markdown fences. Raw holds the untouched model text.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses model output. It first tries the text as is, then again with
// ```json and ``` markers and surrounding whitespace removed. Fields of the
// wrong type decode as empty and are left for Normalize.
func Decode(text string) (types.AIAnalysisResult, error) {
	var v any

	if err := json.Unmarshal([]byte(text), &v); err != nil {
		cleaned := strings.ReplaceAll(text, "```json", "")
		cleaned = strings.ReplaceAll(cleaned, "```", "")
		cleaned = strings.TrimSpace(cleaned)

		if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
			//nolint:exhaustruct // empty result on error
			return types.AIAnalysisResult{}, &DecodeError{
				Raw: text,
				Err: errors.Wrap(errors.ErrCodeModelDecodeFailed, "failed to parse AI response", err),
			}
		}
	}

	obj, _ := v.(map[string]any)

	return types.AIAnalysisResult{
		Summary:         stringField(obj, "summary"),
		Sentiment:       types.Sentiment(stringField(obj, "sentiment")),
		TechnicalSignal: stringField(obj, "technicalSignal"),
	}, nil
}

// Normalize fills every missing or invalid field with its placeholder.
func Normalize(r types.AIAnalysisResult) types.AIAnalysisResult {
	if r.Summary == "" {
		r.Summary = PlaceholderSummary
	}

	sentiment, ok := types.ParseSentiment(string(r.Sentiment))
	if !ok {
		sentiment = types.SentimentNeutral
	}

	r.Sentiment = sentiment

	if r.TechnicalSignal == "" {
		r.TechnicalSignal = PlaceholderSignal
	}

	return r
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)

	return s
}
