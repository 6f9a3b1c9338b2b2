package types

// HistoryWindow is the maximum number of points kept in a snapshot history.
const HistoryWindow = 50

// Volume descriptors shown alongside a snapshot.
const (
	VolumePending   = "---"
	VolumeRealtime  = "Real-time"
	VolumeSimulated = "Simulated"
)

// PricePoint is a single price observation. Treat as immutable.
type PricePoint struct {
	// Timestamp is the observation time in epoch milliseconds
	Timestamp int64 `json:"timestamp"`
	// Price is the observed price
	Price float64 `json:"price"`
	// Label is the formatted time used by chart axes
	Label string `json:"formattedTime"`
}

// MarketSnapshot is the complete current state of one asset.
type MarketSnapshot struct {
	Asset            AssetID      `json:"currency"`
	CurrentPrice     float64      `json:"currentPrice"`
	Change24h        float64      `json:"change24h"`
	Change24hPercent float64      `json:"change24hPercent"`
	High24h          float64      `json:"high24h"`
	Low24h           float64      `json:"low24h"`
	Volume           string       `json:"volume"`
	History          []PricePoint `json:"history"`
}

// NewEmptySnapshot returns the placeholder snapshot shown before any data exists.
func NewEmptySnapshot(asset AssetID) MarketSnapshot {
	return MarketSnapshot{
		Asset:            asset,
		CurrentPrice:     0,
		Change24h:        0,
		Change24hPercent: 0,
		High24h:          0,
		Low24h:           0,
		Volume:           VolumePending,
		History:          []PricePoint{},
	}
}

// Clone returns a deep copy of the snapshot. The history slice is never shared.
func (s MarketSnapshot) Clone() MarketSnapshot {
	out := s
	out.History = make([]PricePoint, len(s.History))
	copy(out.History, s.History)

	return out
}

// HasData reports whether the snapshot holds at least one price point.
func (s MarketSnapshot) HasData() bool {
	return len(s.History) > 0
}

// Accepts reports whether p can be appended without breaking timestamp order.
func (s MarketSnapshot) Accepts(p PricePoint) bool {
	if !s.HasData() {
		return true
	}

	return p.Timestamp >= s.History[len(s.History)-1].Timestamp
}

// AppendPoint returns a copy of the snapshot with p appended to the history,
// the oldest point evicted past HistoryWindow, and CurrentPrice set to p.Price.
// The 24h statistics are left untouched. A point older than the last one is
// dropped and an unchanged copy is returned.
func (s MarketSnapshot) AppendPoint(p PricePoint) MarketSnapshot {
	if !s.Accepts(p) {
		return s.Clone()
	}

	out := s
	history := make([]PricePoint, 0, HistoryWindow)

	start := 0
	if len(s.History) >= HistoryWindow {
		start = len(s.History) - HistoryWindow + 1
	}

	history = append(history, s.History[start:]...)
	history = append(history, p)

	out.History = history
	out.CurrentPrice = p.Price

	return out
}

// TrimHistory returns the last n points of history (all of them when shorter).
func TrimHistory(history []PricePoint, n int) []PricePoint {
	if n <= 0 {
		return []PricePoint{}
	}

	if len(history) <= n {
		out := make([]PricePoint, len(history))
		copy(out, history)

		return out
	}

	out := make([]PricePoint, n)
	copy(out, history[len(history)-n:])

	return out
}
