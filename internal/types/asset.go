package types

import (
	"strings"

	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// AssetID identifies one tracked asset.
type AssetID string

const (
	AssetBTC AssetID = "BTC"
	AssetETH AssetID = "ETH"
)

// AssetInfo holds the static lookup data for a tracked asset.
type AssetInfo struct {
	ID AssetID
	// DisplayName is used in prompts (e.g. "Bitcoin")
	DisplayName string
	// FeedSymbol is the symbol carried by the push trade feed (e.g. "BTCUSDT")
	FeedSymbol string
	// SourceID is the identifier used by the bulk historical source (e.g. "bitcoin")
	SourceID string
	// SeedPrice seeds the synthetic history in fallback mode
	SeedPrice float64
	// FallbackChange and FallbackChangePercent are the placeholder 24h changes shown in fallback mode
	FallbackChange        float64
	FallbackChangePercent float64
}

var assetRegistry = map[AssetID]AssetInfo{
	AssetBTC: {
		ID:                    AssetBTC,
		DisplayName:           "Bitcoin",
		FeedSymbol:            "BTCUSDT",
		SourceID:              "bitcoin",
		SeedPrice:             64000,
		FallbackChange:        120,
		FallbackChangePercent: 0.5,
	},
	AssetETH: {
		ID:                    AssetETH,
		DisplayName:           "Ethereum",
		FeedSymbol:            "ETHUSDT",
		SourceID:              "ethereum",
		SeedPrice:             3400,
		FallbackChange:        -20,
		FallbackChangePercent: -0.2,
	},
}

// TrackedAssets returns the fixed set of tracked assets in display order.
func TrackedAssets() []AssetID {
	return []AssetID{AssetBTC, AssetETH}
}

// Info returns the static lookup data for the asset.
func (a AssetID) Info() (AssetInfo, bool) {
	info, ok := assetRegistry[a]

	return info, ok
}

// DisplayName returns the human readable asset name, or the raw id when unknown.
func (a AssetID) DisplayName() string {
	if info, ok := assetRegistry[a]; ok {
		return info.DisplayName
	}

	return string(a)
}

// Valid reports whether the asset is tracked.
func (a AssetID) Valid() bool {
	_, ok := assetRegistry[a]

	return ok
}

// ParseAsset parses a case-insensitive asset code such as "btc".
func ParseAsset(s string) (AssetID, error) {
	id := AssetID(strings.ToUpper(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %q", s)
	}

	return id, nil
}

// AssetForFeedSymbol maps a push-feed symbol (e.g. "ETHUSDT") to its asset.
func AssetForFeedSymbol(symbol string) (AssetID, bool) {
	upper := strings.ToUpper(symbol)
	for id, info := range assetRegistry {
		if info.FeedSymbol == upper {
			return id, true
		}
	}

	return "", false
}
