package types

// Sentiment is the model's market sentiment classification.
type Sentiment string

const (
	SentimentBullish Sentiment = "BULLISH"
	SentimentBearish Sentiment = "BEARISH"
	SentimentNeutral Sentiment = "NEUTRAL"
)

// ParseSentiment returns the sentiment when s is exactly one of the valid values.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return Sentiment(s), true
	default:
		return SentimentNeutral, false
	}
}

// AIAnalysisResult is the typed result of an insight request.
// Values handed to callers always have every field populated.
type AIAnalysisResult struct {
	Summary         string    `json:"summary" jsonschema:"title=Summary,description=A concise 2-3 sentence summary of the market situation merging news and price action."`
	Sentiment       Sentiment `json:"sentiment" jsonschema:"title=Sentiment,description=The overall market sentiment.,enum=BULLISH,enum=BEARISH,enum=NEUTRAL"`
	TechnicalSignal string    `json:"technicalSignal" jsonschema:"title=Technical Signal,description=A short technical indicator phrase (e.g. RSI Divergence or Support Re-test)."`
}

// Complete reports whether every field is populated with a valid value.
func (r AIAnalysisResult) Complete() bool {
	_, ok := ParseSentiment(string(r.Sentiment))

	return ok && r.Summary != "" && r.TechnicalSignal != ""
}
