package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// ProviderType defines the type of historical market data provider.
type ProviderType string

const (
	ProviderCoinGecko ProviderType = "coingecko"
	ProviderBinance   ProviderType = "binance"
	ProviderPolygon   ProviderType = "polygon"
)

// HistoryWindow is how far back a bootstrap fetch reaches.
const HistoryWindow = 24 * time.Hour

// PriceSample is one [timestamp, price] pair from a bulk historical source.
type PriceSample struct {
	// Timestamp in epoch milliseconds
	Timestamp int64
	Price     float64
}

// HistoryProvider fetches the recent price series of one asset from a bulk source.
// Implementations return samples ordered by time. Any transport error, non-success
// status or malformed payload is returned as an error.
type HistoryProvider interface {
	// Name returns the provider name used in logs.
	Name() string
	// FetchHistory returns the last HistoryWindow of prices for asset.
	FetchHistory(ctx context.Context, asset types.AssetID) ([]PriceSample, error)
}

// NewHistoryProvider creates a history provider from a validated config.
func NewHistoryProvider(config HistoryConfig) (HistoryProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderCoinGecko:
		return NewCoinGeckoClient(config.BaseURL, config.Timeout), nil
	case ProviderBinance:
		return NewBinanceClient(config.BaseURL), nil
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonApiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported history provider: %s", config.Provider)
	}
}
