// Package synthetic produces plausible random-walk price histories used when no
// live market data can be acquired.
package synthetic

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-pulse/internal/types"
)

const (
	// DefaultCount is the number of steps generated when the caller passes count <= 0.
	DefaultCount = 50
	// StepVolatility bounds each step to this fraction of the start price.
	StepVolatility = 0.002
	// StepInterval is the spacing between generated points.
	StepInterval = time.Second
)

// Generator generates random-walk price histories.
// Use a fixed seed for reproducible results in tests.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
	loc *time.Location
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the clock that anchors the last generated point.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLocation sets the location used to format point labels.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		g.loc = loc
	}
}

// NewGenerator creates a new Generator with the given seed.
func NewGenerator(seed int64, opts ...Option) *Generator {
	return NewGeneratorWithSource(rand.NewSource(seed), opts...)
}

// NewGeneratorWithSource creates a Generator drawing from src.
func NewGeneratorWithSource(src rand.Source, opts ...Option) *Generator {
	g := &Generator{
		mu:  sync.Mutex{},
		rng: rand.New(src), //nolint:gosec // not used for anything security related
		now: time.Now,
		loc: time.UTC,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns count+1 points ending at the current clock time, spaced
// StepInterval apart. Each step moves the price by U(-1,1) * startPrice * StepVolatility,
// so the walk stays close to startPrice.
func (g *Generator) Generate(startPrice float64, count int) []types.PricePoint {
	if count <= 0 {
		count = DefaultCount
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	history := make([]types.PricePoint, 0, count+1)
	now := g.now().UnixMilli()
	price := startPrice
	maxStep := startPrice * StepVolatility

	for i := count; i >= 0; i-- {
		price += (g.rng.Float64()*2 - 1) * maxStep
		ts := now - int64(i)*StepInterval.Milliseconds()

		history = append(history, types.PricePoint{
			Timestamp: ts,
			Price:     price,
			Label:     types.FormatAxisTime(ts, g.loc),
		})
	}

	return history
}
