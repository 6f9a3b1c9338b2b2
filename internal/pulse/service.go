// Package pulse wires bootstrap, the trade feed and the store together and
// decides between LIVE and FALLBACK ingestion.
package pulse

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/argo-pulse/internal/bootstrap"
	"github.com/rxtech-lab/argo-pulse/internal/insight"
	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/store"
	"github.com/rxtech-lab/argo-pulse/internal/stream"
	"github.com/rxtech-lab/argo-pulse/internal/types"
)

// Feed is the push trade feed. *stream.Consumer implements it.
type Feed interface {
	Consume(ctx context.Context, onTick func(stream.Tick)) error
}

// Service runs the ingestion pipeline against a store.
type Service struct {
	store    *store.Store
	loader   *bootstrap.Loader
	feed     Feed
	analyzer *insight.Analyzer
	assets   []types.AssetID
	location *time.Location
	degrade  bool
	logger   *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the location used for tick labels.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

// WithDegradeOnStreamFailure controls whether a failed feed moves LIVE to FALLBACK.
func WithDegradeOnStreamFailure(degrade bool) Option {
	return func(s *Service) {
		s.degrade = degrade
	}
}

// NewService creates a service. The store must not be running yet; Run starts it.
func NewService(st *store.Store, loader *bootstrap.Loader, feed Feed, analyzer *insight.Analyzer, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		loader:   loader,
		feed:     feed,
		analyzer: analyzer,
		assets:   types.TrackedAssets(),
		location: time.UTC,
		degrade:  true,
		logger:   log.Named("pulse"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Store returns the store the service writes to.
func (s *Service) Store() *store.Store {
	return s.store
}

// Run starts the store and the ingestion pipeline and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.store.Run(gctx)
	})

	g.Go(func() error {
		err := s.ingest(gctx)
		if err != nil && gctx.Err() != nil {
			return nil
		}

		return err
	})

	return g.Wait()
}

// ingest bootstraps once, then either follows the feed (LIVE) or stays on synthetic data (FALLBACK).
func (s *Service) ingest(ctx context.Context) error {
	mode := types.IngestionModeLive

	result, err := s.loader.Bootstrap(ctx, s.assets)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Warn("Bootstrap failed, switching to synthetic data", zap.Error(err))

		result = s.loader.Fallback(s.assets)
		mode = types.IngestionModeFallback
	}

	for asset, snapshot := range result.Snapshots {
		err := s.store.Update(ctx, asset, func(types.MarketSnapshot) types.MarketSnapshot {
			return snapshot
		})
		if err != nil {
			return err
		}
	}

	if err := s.store.SetMode(ctx, mode); err != nil {
		return err
	}

	if err := s.store.SetLoading(ctx, false); err != nil {
		return err
	}

	s.logger.Info("Bootstrap complete", zap.String("mode", mode.String()), zap.String("source", result.Source))

	if mode != types.IngestionModeLive || s.feed == nil {
		return nil
	}

	return s.follow(ctx)
}

func (s *Service) follow(ctx context.Context) error {
	err := s.feed.Consume(ctx, func(tick stream.Tick) {
		point := tick.PricePoint(s.location)
		stale := false

		err := s.store.Update(ctx, tick.Asset, func(snapshot types.MarketSnapshot) types.MarketSnapshot {
			if !snapshot.Accepts(point) {
				stale = true

				return snapshot
			}

			return snapshot.AppendPoint(point)
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Warn("Failed to apply tick", zap.String("asset", string(tick.Asset)), zap.Error(err))
		}

		if stale {
			s.logger.Debug("Dropped tick older than the last history point",
				zap.String("asset", string(tick.Asset)), zap.Int64("timestamp", tick.Timestamp))
		}
	})
	if ctx.Err() != nil {
		return nil
	}

	if err != nil {
		s.logger.Error("Trade feed failed", zap.Error(err))
	} else {
		s.logger.Warn("Trade feed closed by the remote end")
	}

	if !s.degrade {
		return nil
	}

	// snapshots are kept as they are, only the mode changes
	return s.store.SetMode(ctx, types.IngestionModeFallback)
}

// Analyze runs the never-failing insight request for the asset's current snapshot.
func (s *Service) Analyze(ctx context.Context, asset types.AssetID) (types.AIAnalysisResult, error) {
	snapshot, err := s.store.Get(asset)
	if err != nil {
		//nolint:exhaustruct // empty result on error
		return types.AIAnalysisResult{}, err
	}

	return s.analyzer.Analyze(ctx, snapshot), nil
}

// AnalyzeStrict analyzes a caller-supplied snapshot and reports model failures as errors.
func (s *Service) AnalyzeStrict(ctx context.Context, snapshot types.MarketSnapshot) (types.AIAnalysisResult, error) {
	return s.analyzer.AnalyzeStrict(ctx, snapshot)
}
