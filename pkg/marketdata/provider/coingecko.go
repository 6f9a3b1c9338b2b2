package provider

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

const (
	DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"
	defaultCoinGeckoTimeout = 15 * time.Second
)

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// CoinGeckoClient reads the one day market chart, which returns [timestamp, price] pairs.
type CoinGeckoClient struct {
	client *resty.Client
}

// NewCoinGeckoClient creates a CoinGecko client. Empty baseURL and zero timeout use the defaults.
func NewCoinGeckoClient(baseURL string, timeout time.Duration) HistoryProvider {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}

	if timeout <= 0 {
		timeout = defaultCoinGeckoTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &CoinGeckoClient{client: client}
}

func (c *CoinGeckoClient) Name() string {
	return string(ProviderCoinGecko)
}

func (c *CoinGeckoClient) FetchHistory(ctx context.Context, asset types.AssetID) ([]PriceSample, error) {
	info, ok := asset.Info()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", info.SourceID).
		SetQueryParams(map[string]string{
			"vs_currency": "usd",
			"days":        "1",
		}).
		Get("/coins/{id}/market_chart")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch market chart for %s", info.SourceID)
	}

	if !resp.IsSuccess() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "market chart for %s returned status %d", info.SourceID, resp.StatusCode())
	}

	var chart marketChartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to decode market chart for %s", info.SourceID)
	}

	samples := make([]PriceSample, 0, len(chart.Prices))
	for i, pair := range chart.Prices {
		if len(pair) != 2 {
			return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed, "market chart entry %d has %d values, want 2", i, len(pair))
		}

		samples = append(samples, PriceSample{Timestamp: int64(pair[0]), Price: pair[1]})
	}

	return samples, nil
}
