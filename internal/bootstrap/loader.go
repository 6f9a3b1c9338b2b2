// Package bootstrap performs the one-shot initial acquisition of market history
// and derives the first snapshot of every tracked asset.
package bootstrap

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/synthetic"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider"
)

// Result holds the derived snapshot of every requested asset.
type Result struct {
	Snapshots map[types.AssetID]types.MarketSnapshot
	// Source is the provider name, or "synthetic" for a fallback result
	Source string
}

// SourceSynthetic marks a Result built by Fallback.
const SourceSynthetic = "synthetic"

// ProgressFunc is called once per asset as its history completes.
type ProgressFunc func(asset types.AssetID, samples int)

// Loader acquires the initial history of the tracked assets.
type Loader struct {
	provider   provider.HistoryProvider
	generator  *synthetic.Generator
	logger     *logger.Logger
	location   *time.Location
	onProgress ProgressFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithGenerator sets the synthetic generator used by Fallback.
func WithGenerator(g *synthetic.Generator) Option {
	return func(l *Loader) {
		l.generator = g
	}
}

// WithLocation sets the location used for point labels.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		l.location = loc
	}
}

// WithProgress registers a per-asset completion callback. It may be called concurrently.
func WithProgress(fn ProgressFunc) Option {
	return func(l *Loader) {
		l.onProgress = fn
	}
}

// NewLoader creates a Loader reading from p.
func NewLoader(p provider.HistoryProvider, log *logger.Logger, opts ...Option) *Loader {
	l := &Loader{
		provider:   p,
		generator:  nil,
		logger:     log.Named("bootstrap"),
		location:   time.UTC,
		onProgress: nil,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.generator == nil {
		l.generator = synthetic.NewGenerator(time.Now().UnixNano(), synthetic.WithLocation(l.location))
	}

	return l
}

// Bootstrap fetches every asset concurrently. If any asset fails the whole
// bootstrap fails with ErrCodeAcquisitionFailed and no partial result is returned.
func (l *Loader) Bootstrap(ctx context.Context, assets []types.AssetID) (Result, error) {
	var (
		mu        sync.Mutex
		snapshots = make(map[types.AssetID]types.MarketSnapshot, len(assets))
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, asset := range assets {
		g.Go(func() error {
			samples, err := l.provider.FetchHistory(gctx, asset)
			if err != nil {
				return errors.Wrapf(errors.ErrCodeAcquisitionFailed, err, "bootstrap %s from %s", asset, l.provider.Name())
			}

			snapshot, err := DeriveSnapshot(asset, samples, l.location)
			if err != nil {
				return err
			}

			l.logger.Debug("Fetched history",
				zap.String("asset", string(asset)),
				zap.Int("samples", len(samples)),
				zap.Float64("price", snapshot.CurrentPrice),
			)

			mu.Lock()
			snapshots[asset] = snapshot
			mu.Unlock()

			if l.onProgress != nil {
				l.onProgress(asset, len(samples))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		//nolint:exhaustruct // empty result on failure
		return Result{}, err
	}

	return Result{Snapshots: snapshots, Source: l.provider.Name()}, nil
}

// DeriveSnapshot builds a live snapshot from a full history series.
// The 24h statistics use the whole series, the history keeps the last HistoryWindow points.
func DeriveSnapshot(asset types.AssetID, samples []provider.PriceSample, loc *time.Location) (types.MarketSnapshot, error) {
	if len(samples) == 0 {
		//nolint:exhaustruct // empty snapshot on failure
		return types.MarketSnapshot{}, errors.Newf(errors.ErrCodeAcquisitionFailed, "empty history for %s", asset)
	}

	first := samples[0].Price
	if first <= 0 {
		//nolint:exhaustruct // empty snapshot on failure
		return types.MarketSnapshot{}, errors.Newf(errors.ErrCodeAcquisitionFailed, "non-positive first price %v for %s", first, asset)
	}

	last := samples[len(samples)-1].Price
	high, low := first, first

	points := make([]types.PricePoint, 0, len(samples))
	for _, s := range samples {
		high = max(high, s.Price)
		low = min(low, s.Price)

		points = append(points, types.PricePoint{
			Timestamp: s.Timestamp,
			Price:     s.Price,
			Label:     types.FormatAxisTime(s.Timestamp, loc),
		})
	}

	change := last - first

	return types.MarketSnapshot{
		Asset:            asset,
		CurrentPrice:     last,
		Change24h:        change,
		Change24hPercent: change / first * 100,
		High24h:          high,
		Low24h:           low,
		Volume:           types.VolumeRealtime,
		History:          types.TrimHistory(points, types.HistoryWindow),
	}, nil
}

// Fallback builds synthetic snapshots seeded from each asset's documented seed price.
func (l *Loader) Fallback(assets []types.AssetID) Result {
	snapshots := make(map[types.AssetID]types.MarketSnapshot, len(assets))

	for _, asset := range assets {
		info, ok := asset.Info()
		if !ok {
			l.logger.Warn("Skipping unknown asset in fallback", zap.String("asset", string(asset)))

			continue
		}

		snapshots[asset] = SyntheticSnapshot(info, l.generator)
	}

	return Result{Snapshots: snapshots, Source: SourceSynthetic}
}

// SyntheticSnapshot builds one fallback snapshot with placeholder 24h changes.
func SyntheticSnapshot(info types.AssetInfo, generator *synthetic.Generator) types.MarketSnapshot {
	history := generator.Generate(info.SeedPrice, synthetic.DefaultCount)

	high, low := history[0].Price, history[0].Price
	for _, p := range history {
		high = max(high, p.Price)
		low = min(low, p.Price)
	}

	return types.MarketSnapshot{
		Asset:            info.ID,
		CurrentPrice:     history[len(history)-1].Price,
		Change24h:        info.FallbackChange,
		Change24hPercent: info.FallbackChangePercent,
		High24h:          high,
		Low24h:           low,
		Volume:           types.VolumeSimulated,
		History:          types.TrimHistory(history, types.HistoryWindow),
	}
}
