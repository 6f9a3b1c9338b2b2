package insight

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/schema"
)

var resultSchema = sync.OnceValue(func() string {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	s, err := schema.ToIndentedJSONSchema(types.AIAnalysisResult{})
	if err != nil {
		return `{"summary": "string", "sentiment": "BULLISH | BEARISH | NEUTRAL", "technicalSignal": "string"}`
	}

	return s
})

// ResultSchema returns the JSON schema the model is asked to follow.
func ResultSchema() string {
	return resultSchema()
}

// BuildPrompt renders the analysis request for one snapshot.
func BuildPrompt(snapshot types.MarketSnapshot) string {
	name := snapshot.Asset.DisplayName()

	trend := "up"
	if snapshot.Change24hPercent < 0 {
		trend = "down"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Perform a live market analysis for %s (%s).\n\n", name, snapshot.Asset)
	b.WriteString("Current Technical Data:\n")
	fmt.Fprintf(&b, "- Price: $%s\n", fixed2(snapshot.CurrentPrice))
	fmt.Fprintf(&b, "- 24h Change: %s%% (%s)\n", fixed2(snapshot.Change24hPercent), trend)
	fmt.Fprintf(&b, "- 24h High: $%s\n", fixed2(snapshot.High24h))
	fmt.Fprintf(&b, "- 24h Low: $%s\n\n", fixed2(snapshot.Low24h))
	b.WriteString("Task:\n")
	fmt.Fprintf(&b, "1. Use Google Search to find the absolute latest news headlines for %s from the last 24 hours.\n", name)
	b.WriteString("2. Combine the news with the provided technical data to generate a short trading signal.\n")
	b.WriteString("3. Determine if the sentiment is BULLISH, BEARISH, or NEUTRAL.\n\n")
	b.WriteString("CRITICAL: Return ONLY a raw JSON object. Do not use Markdown formatting. Do not use code blocks (no ```json).\n\n")
	b.WriteString("The JSON object must match this schema:\n")
	b.WriteString(ResultSchema())
	b.WriteString("\n")

	return b.String()
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
