// Package store holds the authoritative market state. One goroutine owns all
// snapshots and every mutation is a command executed on it.
package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

// DefaultSubscriberBuffer is used when Subscribe is called with a buffer <= 0.
const DefaultSubscriberBuffer = 16

type command struct {
	run   func()
	reply chan struct{}
}

// Store is the market state store. Call Run before issuing commands.
type Store struct {
	commands chan command
	done     chan struct{}
	started  atomic.Bool
	logger   *logger.Logger

	// owned by the Run goroutine
	snapshots   map[types.AssetID]types.MarketSnapshot
	mode        types.IngestionMode
	loading     bool
	selected    types.AssetID
	subscribers map[string]chan Event
	dropped     uint64
}

// New creates a store holding an empty snapshot of every tracked asset,
// in LOADING mode with BTC selected.
func New(log *logger.Logger) *Store {
	snapshots := make(map[types.AssetID]types.MarketSnapshot)
	for _, asset := range types.TrackedAssets() {
		snapshots[asset] = types.NewEmptySnapshot(asset)
	}

	return &Store{
		commands:    make(chan command),
		done:        make(chan struct{}),
		started:     atomic.Bool{},
		logger:      log.Named("store"),
		snapshots:   snapshots,
		mode:        types.IngestionModeLoading,
		loading:     true,
		selected:    types.AssetBTC,
		subscribers: make(map[string]chan Event),
		dropped:     0,
	}
}

// Run executes commands until ctx is cancelled. It closes every subscriber
// channel on exit. Run may only be called once.
func (s *Store) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrCodeInvalidParameter, "store is already running")
	}

	defer func() {
		for id, ch := range s.subscribers {
			close(ch)
			delete(s.subscribers, id)
		}

		close(s.done)
		s.logger.Debug("Store stopped", zap.Uint64("dropped_events", s.dropped))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.commands:
			cmd.run()
			close(cmd.reply)
		}
	}
}

// Done is closed once Run has returned.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) exec(ctx context.Context, fn func()) error {
	cmd := command{run: fn, reply: make(chan struct{})}

	select {
	case s.commands <- cmd:
	case <-s.done:
		return errors.New(errors.ErrCodeStoreClosed, "store is closed")
	case <-ctx.Done():
		return ctx.Err()
	}

	<-cmd.reply

	return nil
}

// query runs fn on the owner goroutine, or directly once the loop has
// exited and the state can no longer change.
func (s *Store) query(fn func()) {
	if err := s.exec(context.Background(), fn); err != nil {
		fn()
	}
}

// Get returns a deep copy of the asset's snapshot. After Run has returned it
// reports the last state. The only error is ErrCodeUnknownAsset.
func (s *Store) Get(asset types.AssetID) (types.MarketSnapshot, error) {
	if !asset.Valid() {
		//nolint:exhaustruct // empty snapshot on error
		return types.MarketSnapshot{}, errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	var snapshot types.MarketSnapshot

	s.query(func() {
		snapshot = s.snapshots[asset].Clone()
	})

	return snapshot, nil
}

// All returns a deep copy of every snapshot. After Run has returned it
// reports the last state.
func (s *Store) All() map[types.AssetID]types.MarketSnapshot {
	var out map[types.AssetID]types.MarketSnapshot

	s.query(func() {
		out = make(map[types.AssetID]types.MarketSnapshot, len(s.snapshots))
		for asset, snapshot := range s.snapshots {
			out[asset] = snapshot.Clone()
		}
	})

	return out
}

// Update atomically replaces the asset's snapshot with fn applied to a copy of it.
// fn runs on the owner goroutine and must not call back into the store.
// The history is capped at HistoryWindow whatever fn returns.
func (s *Store) Update(ctx context.Context, asset types.AssetID, fn func(types.MarketSnapshot) types.MarketSnapshot) error {
	if !asset.Valid() {
		return errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	return s.exec(ctx, func() {
		next := fn(s.snapshots[asset].Clone())
		next.Asset = asset

		if len(next.History) > types.HistoryWindow {
			next.History = types.TrimHistory(next.History, types.HistoryWindow)
		}

		s.snapshots[asset] = next.Clone()

		//nolint:exhaustruct // only snapshot fields are relevant
		s.broadcast(Event{Type: EventSnapshot, Asset: asset, Snapshot: &next, Loading: s.loading})
	})
}

// SetMode moves the ingestion mode to next, rejecting transitions the mode machine forbids.
func (s *Store) SetMode(ctx context.Context, next types.IngestionMode) error {
	var transitionErr error

	err := s.exec(ctx, func() {
		if !s.mode.CanTransition(next) {
			transitionErr = errors.Newf(errors.ErrCodeInvalidModeTransition, "cannot move from %s to %s", s.mode, next)

			return
		}

		s.logger.Info("Ingestion mode changed", zap.String("from", s.mode.String()), zap.String("to", next.String()))
		s.mode = next

		//nolint:exhaustruct // only mode fields are relevant
		s.broadcast(Event{Type: EventMode, Mode: next, Loading: s.loading})
	})
	if err != nil {
		return err
	}

	return transitionErr
}

// Mode returns the current ingestion mode.
func (s *Store) Mode() types.IngestionMode {
	var mode types.IngestionMode

	s.query(func() { mode = s.mode })

	return mode
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(ctx context.Context, loading bool) error {
	return s.exec(ctx, func() {
		if s.loading == loading {
			return
		}

		s.loading = loading

		//nolint:exhaustruct // only loading fields are relevant
		s.broadcast(Event{Type: EventLoading, Loading: loading})
	})
}

// IsLoading reports whether the bootstrap is still running.
func (s *Store) IsLoading() bool {
	var loading bool

	s.query(func() { loading = s.loading })

	return loading
}

// Select sets the asset the user is looking at.
func (s *Store) Select(ctx context.Context, asset types.AssetID) error {
	if !asset.Valid() {
		return errors.Newf(errors.ErrCodeUnknownAsset, "unknown asset: %s", asset)
	}

	return s.exec(ctx, func() {
		if s.selected == asset {
			return
		}

		s.selected = asset

		//nolint:exhaustruct // only selection fields are relevant
		s.broadcast(Event{Type: EventSelection, Selected: asset, Loading: s.loading})
	})
}

// Selected returns the selected asset.
func (s *Store) Selected() types.AssetID {
	var selected types.AssetID

	s.query(func() { selected = s.selected })

	return selected
}

// Subscribe registers a change listener. Events are dropped for a subscriber
// whose buffer is full. The returned cancel func unregisters and closes the
// channel; it is safe to call more than once. Subscribing to a stopped store
// returns a closed channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}

	id := uuid.NewString()
	ch := make(chan Event, buffer)

	err := s.exec(context.Background(), func() {
		s.subscribers[id] = ch
	})
	if err != nil {
		close(ch)

		return ch, func() {}
	}

	var once sync.Once

	cancel := func() {
		once.Do(func() {
			_ = s.exec(context.Background(), func() {
				if sub, ok := s.subscribers[id]; ok {
					close(sub)
					delete(s.subscribers, id)
				}
			})
		})
	}

	return ch, cancel
}

func (s *Store) broadcast(ev Event) {
	for id, ch := range s.subscribers {
		out := ev
		if ev.Snapshot != nil {
			snapshot := ev.Snapshot.Clone()
			out.Snapshot = &snapshot
		}

		select {
		case ch <- out:
		default:
			s.dropped++
			s.logger.Debug("Dropped event for slow subscriber", zap.String("subscriber", id), zap.String("type", string(ev.Type)))
		}
	}
}
