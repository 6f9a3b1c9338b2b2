package stream

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// Tick is one trade event for a tracked asset.
type Tick struct {
	Asset types.AssetID
	Price float64
	// Timestamp is the trade time in epoch milliseconds
	Timestamp int64
}

// PricePoint converts the tick to a history point labelled with the chart time.
func (t Tick) PricePoint(loc *time.Location) types.PricePoint {
	return types.PricePoint{
		Timestamp: t.Timestamp,
		Price:     t.Price,
		Label:     types.FormatChartTime(t.Timestamp, loc),
	}
}

type envelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type tradePayload struct {
	Symbol    string          `json:"s"`
	Price     decimal.Decimal `json:"p"`
	Quantity  decimal.Decimal `json:"q"`
	TradeTime int64           `json:"T"`
}

// ParseMessage decodes a combined-stream envelope {stream, data:{s,p,q,T}} or a
// bare trade object {s,p,T}. Bad payloads return ErrCodeMalformedTick, symbols
// outside the asset table return ErrCodeUnknownAsset.
func ParseMessage(raw []byte) (Tick, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.Wrap(errors.ErrCodeMalformedTick, "invalid json", err)
	}

	payload := raw
	if len(env.Data) > 0 {
		payload = env.Data
	}

	var trade tradePayload
	if err := json.Unmarshal(payload, &trade); err != nil {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.Wrap(errors.ErrCodeMalformedTick, "invalid trade payload", err)
	}

	if trade.Symbol == "" {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.New(errors.ErrCodeMalformedTick, "missing symbol")
	}

	if trade.TradeTime <= 0 {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.New(errors.ErrCodeMalformedTick, "missing trade time")
	}

	if !trade.Price.IsPositive() {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.Newf(errors.ErrCodeMalformedTick, "price must be positive, got %s", trade.Price)
	}

	asset, ok := types.AssetForFeedSymbol(trade.Symbol)
	if !ok {
		//nolint:exhaustruct // empty tick on error
		return Tick{}, errors.Newf(errors.ErrCodeUnknownAsset, "unknown symbol %s", trade.Symbol)
	}

	return Tick{
		Asset:     asset,
		Price:     trade.Price.InexactFloat64(),
		Timestamp: trade.TradeTime,
	}, nil
}
