package types

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyPrinter = message.NewPrinter(language.English)

// FormatChartTime formats an epoch-ms timestamp as HH:MM:SS (24h) in loc.
// A nil loc means UTC.
func FormatChartTime(ms int64, loc *time.Location) string {
	return formatIn(ms, loc, "15:04:05")
}

// FormatAxisTime formats an epoch-ms timestamp as HH:MM (24h) in loc.
// Bootstrap and synthetic points use this coarser label.
func FormatAxisTime(ms int64, loc *time.Location) string {
	return formatIn(ms, loc, "15:04")
}

// FormatCurrency formats a USD amount with grouping and two decimals, e.g. $64,000.00.
func FormatCurrency(v float64) string {
	if v < 0 {
		return currencyPrinter.Sprintf("-$%.2f", math.Abs(v))
	}

	return currencyPrinter.Sprintf("$%.2f", v)
}

func formatIn(ms int64, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.UTC
	}

	return time.UnixMilli(ms).In(loc).Format(layout)
}
