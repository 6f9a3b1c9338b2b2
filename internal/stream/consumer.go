// Package stream consumes the push trade feed and emits throttled ticks.
package stream

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider"
)

// DefaultFeedURL is the Binance public market stream endpoint.
const DefaultFeedURL = "wss://stream.binance.com:9443"

const closeWriteTimeout = time.Second

// State is the lifecycle state of a Consumer.
type State string

const (
	StateIdle       State = "IDLE"
	StateSubscribed State = "SUBSCRIBED"
	StateClosed     State = "CLOSED"
	StateFailed     State = "FAILED"
)

// Stats counts what happened to received messages.
type Stats struct {
	Applied   uint64 `json:"applied"`
	Throttled uint64 `json:"throttled"`
	Malformed uint64 `json:"malformed"`
	Unknown   uint64 `json:"unknown"`

	// LastApplied is the arrival time of the last applied tick, zero before the first
	LastApplied time.Time `json:"lastApplied"`
}

// Consumer holds one multiplexed trade subscription for all tracked assets.
// A Consumer is single use: once Consume returns it cannot be restarted.
type Consumer struct {
	id       string
	config   provider.FeedConfig
	url      string
	assets   []types.AssetID
	dialer   *websocket.Dialer
	throttle *Throttle
	now      func() time.Time
	logger   *logger.Logger

	mu      sync.Mutex
	state   State
	started bool
	conn    *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}

	applied   atomic.Uint64
	throttled atomic.Uint64
	malformed atomic.Uint64
	unknown   atomic.Uint64
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithClock overrides the arrival clock used by the throttle.
func WithClock(now func() time.Time) Option {
	return func(c *Consumer) {
		c.now = now
	}
}

// WithAssets restricts the subscription to the given assets.
func WithAssets(assets []types.AssetID) Option {
	return func(c *Consumer) {
		c.assets = assets
	}
}

// NewConsumer creates an idle consumer for the feed described by config.
func NewConsumer(config provider.FeedConfig, log *logger.Logger, opts ...Option) *Consumer {
	if config.URL == "" {
		config.URL = DefaultFeedURL
	}

	url := config.URL

	id := uuid.NewString()

	//nolint:exhaustruct // remaining dialer fields use library defaults
	dialer := &websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: config.HandshakeTimeout,
	}
	if dialer.HandshakeTimeout <= 0 {
		dialer.HandshakeTimeout = websocket.DefaultDialer.HandshakeTimeout
	}

	//nolint:exhaustruct // counters start at zero
	c := &Consumer{
		id:       id,
		config:   config,
		url:      url,
		assets:   types.TrackedAssets(),
		dialer:   dialer,
		throttle: NewThrottle(config.Throttle),
		now:      time.Now,
		logger:   log.Named("stream").With(zap.String("subscription", id)),
		state:    StateIdle,
		started:  false,
		closed:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID returns the subscription id used in logs.
func (c *Consumer) ID() string {
	return c.id
}

// StreamURL returns the combined stream URL, e.g.
// wss://host/stream?streams=btcusdt@trade/ethusdt@trade.
func (c *Consumer) StreamURL() string {
	streams := make([]string, 0, len(c.assets))
	for _, asset := range c.assets {
		if info, ok := asset.Info(); ok {
			streams = append(streams, strings.ToLower(info.FeedSymbol)+"@trade")
		}
	}

	return strings.TrimSuffix(c.url, "/") + "/stream?streams=" + strings.Join(streams, "/")
}

// State returns the current lifecycle state.
func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Stats returns a snapshot of the message counters.
func (c *Consumer) Stats() Stats {
	return Stats{
		Applied:   c.applied.Load(),
		Throttled: c.throttled.Load(),
		Malformed: c.malformed.Load(),
		Unknown:   c.unknown.Load(),

		LastApplied: c.throttle.LastApplied().TakeOr(time.Time{}),
	}
}

// Consume subscribes and delivers admitted ticks to onTick until the
// subscription ends. Cancelling ctx, calling Close and a normal closure by the
// peer all return nil with state CLOSED. Any other dial or read error ends the
// subscription with ErrCodeStreamFailed. No reconnect is attempted.
func (c *Consumer) Consume(ctx context.Context, onTick func(Tick)) error {
	c.mu.Lock()
	if c.started {
		state := c.state
		c.mu.Unlock()

		return errors.Newf(errors.ErrCodeInvalidParameter, "consumer already used, state %s", state)
	}
	c.started = true
	c.mu.Unlock()

	if err := c.config.Validate(); err != nil {
		c.setState(StateFailed)

		return err
	}

	if c.isClosed() {
		c.setState(StateClosed)

		return nil
	}

	url := c.StreamURL()

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		if ctx.Err() != nil || c.isClosed() {
			c.setState(StateClosed)

			return nil
		}

		c.setState(StateFailed)

		return errors.Wrapf(errors.ErrCodeStreamFailed, err, "failed to subscribe to %s", url)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateSubscribed
	c.mu.Unlock()

	// Close may have run between the dial and storing conn
	if c.isClosed() {
		_ = conn.Close()
		c.setState(StateClosed)

		return nil
	}

	c.logger.Info("Subscribed to trade stream", zap.String("url", url))

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.isClosed() || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.setState(StateClosed)
				_ = conn.Close()
				c.logger.Info("Trade stream closed", zap.Any("stats", c.Stats()))

				return nil
			}

			c.setState(StateFailed)
			_ = conn.Close()

			return errors.Wrap(errors.ErrCodeStreamFailed, "trade stream read failed", err)
		}

		c.handle(message, onTick)
	}
}

func (c *Consumer) handle(message []byte, onTick func(Tick)) {
	tick, err := ParseMessage(message)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeUnknownAsset) {
			c.unknown.Add(1)
		} else {
			c.malformed.Add(1)
		}

		c.logger.Debug("Dropped trade message", zap.Error(err))

		return
	}

	if !c.throttle.Allow(c.now()) {
		c.throttled.Add(1)

		return
	}

	c.applied.Add(1)
	onTick(tick)
}

// Close ends the subscription. It is safe to call from any goroutine and more than once.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			return
		}

		deadline := time.Now().Add(closeWriteTimeout)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	})
}

func (c *Consumer) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Consumer) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}
