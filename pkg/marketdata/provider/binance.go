package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

const (
	binanceInterval = "5m"
	// binancePageSize is the default kline limit per request
	binancePageSize = 500
)

// BinanceAPIClient is the subset of the Binance client used by BinanceClient.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

// BinanceKlinesService is the subset of the klines service used by BinanceClient.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

type binanceAPIClientAdapter struct {
	client *binance.Client
}

func (a *binanceAPIClientAdapter) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceAdapter{service: a.client.NewKlinesService()}
}

type binanceKlinesServiceAdapter struct {
	service *binance.KlinesService
}

func (a *binanceKlinesServiceAdapter) Symbol(symbol string) BinanceKlinesService {
	a.service.Symbol(symbol)

	return a
}

func (a *binanceKlinesServiceAdapter) Interval(interval string) BinanceKlinesService {
	a.service.Interval(interval)

	return a
}

func (a *binanceKlinesServiceAdapter) StartTime(startTime int64) BinanceKlinesService {
	a.service.StartTime(startTime)

	return a
}

func (a *binanceKlinesServiceAdapter) EndTime(endTime int64) BinanceKlinesService {
	a.service.EndTime(endTime)

	return a
}

func (a *binanceKlinesServiceAdapter) Do(ctx context.Context) ([]*binance.Kline, error) {
	return a.service.Do(ctx)
}

// BinanceClient reads the last day of 5 minute klines and uses each bar's close price.
type BinanceClient struct {
	apiClient BinanceAPIClient
	now       func() time.Time
}

// NewBinanceClient creates a client against the public Binance REST API.
// An empty baseURL keeps the library default.
func NewBinanceClient(baseURL string) HistoryProvider {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}

	return NewBinanceClientWithAPI(&binanceAPIClientAdapter{client: client})
}

// NewBinanceClientWithAPI creates a client with a custom API client.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

func (c *BinanceClient) Name() string {
	return string(ProviderBinance)
}

// FetchHistory pages through klines until the window end is reached or a short page comes back.
func (c *BinanceClient) FetchHistory(ctx context.Context, asset types.AssetID) ([]PriceSample, error) {
	info, ok := asset.Info()
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	end := c.now()
	endMillis := end.UnixMilli()
	currentStart := end.Add(-HistoryWindow).UnixMilli()

	samples := []PriceSample{}

	for {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(info.FeedSymbol).
			Interval(binanceInterval).
			StartTime(currentStart).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", info.FeedSymbol)
		}

		for _, k := range klines {
			price, err := decimal.NewFromString(k.Close)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid close price %q", k.Close)
			}

			samples = append(samples, PriceSample{Timestamp: k.OpenTime, Price: price.InexactFloat64()})
		}

		if len(klines) < binancePageSize {
			break
		}

		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	return samples, nil
}
