package provider

import (
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/rxtech-lab/argo-pulse/pkg/schema"
)

// ProviderInfo contains metadata about a historical data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderCoinGecko: {
		Name:         string(ProviderCoinGecko),
		DisplayName:  "CoinGecko",
		Description:  "Public market chart API returning [timestamp, price] pairs",
		RequiresAuth: false,
	},
	ProviderBinance: {
		Name:         string(ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange klines, close price per 5 minute bar",
		RequiresAuth: false,
	},
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "Crypto aggregates, close price per 5 minute bar",
		RequiresAuth: true,
	},
}

// GetSupportedProviders returns the supported provider names in a stable order.
func GetSupportedProviders() []string {
	return []string{string(ProviderCoinGecko), string(ProviderBinance), string(ProviderPolygon)}
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetHistoryConfigSchema returns the JSON schema of HistoryConfig.
func GetHistoryConfigSchema() (string, error) {
	//nolint:exhaustruct // Empty struct is intentional for schema generation
	return schema.ToJSONSchema(HistoryConfig{})
}

// GetKeychainFields returns the HistoryConfig fields holding secrets.
func GetKeychainFields() []string {
	//nolint:exhaustruct // Empty struct is intentional for field introspection
	return schema.GetKeychainFields(HistoryConfig{})
}
