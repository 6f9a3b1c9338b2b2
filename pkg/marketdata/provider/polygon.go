package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// aggIterator is the subset of the polygon aggregate iterator read by PolygonClient.
type aggIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

type listAggsFunc func(ctx context.Context, params *models.ListAggsParams) aggIterator

// PolygonClient reads the last day of 5 minute crypto aggregates and uses each bar's close.
type PolygonClient struct {
	listAggs listAggsFunc
	now      func() time.Time
}

// NewPolygonClient creates a client for the Polygon.io REST API.
func NewPolygonClient(apiKey string) (HistoryProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon api key is required")
	}

	client := polygon.New(apiKey)

	return &PolygonClient{
		listAggs: func(ctx context.Context, params *models.ListAggsParams) aggIterator {
			return client.ListAggs(ctx, params)
		},
		now: time.Now,
	}, nil
}

func (c *PolygonClient) Name() string {
	return string(ProviderPolygon)
}

func (c *PolygonClient) FetchHistory(ctx context.Context, asset types.AssetID) ([]PriceSample, error) {
	if !asset.Valid() {
		return nil, errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	end := c.now()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     polygonTicker(asset),
		Multiplier: 5,
		Timespan:   models.Minute,
		From:       models.Millis(end.Add(-HistoryWindow)),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.listAggs(ctx, params)

	samples := []PriceSample{}
	for iter.Next() {
		agg := iter.Item()
		samples = append(samples, PriceSample{
			Timestamp: time.Time(agg.Timestamp).UnixMilli(),
			Price:     agg.Close,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", asset)
	}

	return samples, nil
}

func polygonTicker(asset types.AssetID) string {
	return fmt.Sprintf("X:%sUSD", asset)
}
