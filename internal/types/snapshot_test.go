package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SnapshotTestSuite struct {
	suite.Suite
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotTestSuite))
}

func points(n int, startTs int64) []PricePoint {
	out := make([]PricePoint, n)
	for i := 0; i < n; i++ {
		out[i] = PricePoint{Timestamp: startTs + int64(i)*1000, Price: float64(100 + i), Label: ""}
	}

	return out
}

func (suite *SnapshotTestSuite) TestNewEmptySnapshot() {
	snap := NewEmptySnapshot(AssetETH)
	suite.Equal(AssetETH, snap.Asset)
	suite.Equal(VolumePending, snap.Volume)
	suite.Empty(snap.History)
	suite.False(snap.HasData())
}

func (suite *SnapshotTestSuite) TestCloneDoesNotShareHistory() {
	snap := NewEmptySnapshot(AssetBTC)
	snap.History = points(3, 0)

	clone := snap.Clone()
	clone.History[0].Price = -1

	suite.Equal(100.0, snap.History[0].Price)
	suite.Equal(snap.History[1:], clone.History[1:])
}

func (suite *SnapshotTestSuite) TestAppendPointSetsCurrentPrice() {
	snap := NewEmptySnapshot(AssetBTC)
	snap.High24h = 10
	snap.Low24h = 5
	snap.Change24h = 1

	next := snap.AppendPoint(PricePoint{Timestamp: 1000, Price: 42, Label: "00:00:01"})

	suite.Equal(42.0, next.CurrentPrice)
	suite.Len(next.History, 1)
	// extrema and change are not recomputed on append
	suite.Equal(10.0, next.High24h)
	suite.Equal(5.0, next.Low24h)
	suite.Equal(1.0, next.Change24h)
	// receiver is untouched
	suite.Empty(snap.History)
}

func (suite *SnapshotTestSuite) TestAppendPointEvictsOldest() {
	snap := NewEmptySnapshot(AssetBTC)
	snap.History = points(HistoryWindow, 0)

	next := snap.AppendPoint(PricePoint{Timestamp: 999_000, Price: 1, Label: ""})

	suite.Len(next.History, HistoryWindow)
	suite.Equal(int64(1000), next.History[0].Timestamp)
	suite.Equal(int64(999_000), next.History[HistoryWindow-1].Timestamp)
	suite.Len(snap.History, HistoryWindow)
	suite.Equal(int64(0), snap.History[0].Timestamp)
}

func (suite *SnapshotTestSuite) TestAppendPointDropsOlderTimestamp() {
	snap := NewEmptySnapshot(AssetBTC)
	snap = snap.AppendPoint(PricePoint{Timestamp: 2000, Price: 10, Label: ""})

	suite.False(snap.Accepts(PricePoint{Timestamp: 1500, Price: 11, Label: ""}))
	suite.True(snap.Accepts(PricePoint{Timestamp: 2000, Price: 12, Label: ""}))

	next := snap.AppendPoint(PricePoint{Timestamp: 1500, Price: 11, Label: ""})
	suite.Len(next.History, 1)
	suite.Equal(int64(2000), next.History[0].Timestamp)
	suite.Equal(10.0, next.CurrentPrice)

	// equal timestamps keep arrival order
	next = next.AppendPoint(PricePoint{Timestamp: 2000, Price: 12, Label: ""})
	suite.Len(next.History, 2)
	suite.Equal(12.0, next.CurrentPrice)
}

func (suite *SnapshotTestSuite) TestAppendManyKeepsWindowAndOrder() {
	snap := NewEmptySnapshot(AssetETH)
	for i := 0; i < 3*HistoryWindow; i++ {
		snap = snap.AppendPoint(PricePoint{Timestamp: int64(i) * 1000, Price: float64(i), Label: ""})
		suite.LessOrEqual(len(snap.History), HistoryWindow)
	}

	suite.Len(snap.History, HistoryWindow)
	for i := 1; i < len(snap.History); i++ {
		suite.LessOrEqual(snap.History[i-1].Timestamp, snap.History[i].Timestamp)
	}
	suite.Equal(snap.History[len(snap.History)-1].Price, snap.CurrentPrice)
}

func (suite *SnapshotTestSuite) TestTrimHistory() {
	full := points(120, 0)

	trimmed := TrimHistory(full, HistoryWindow)
	suite.Len(trimmed, HistoryWindow)
	suite.Equal(full[70], trimmed[0])
	suite.Equal(full[119], trimmed[49])

	suite.Len(TrimHistory(full[:3], HistoryWindow), 3)
	suite.Empty(TrimHistory(full, 0))
}

func (suite *SnapshotTestSuite) TestModeTransitions() {
	suite.True(IngestionModeLoading.CanTransition(IngestionModeLive))
	suite.True(IngestionModeLoading.CanTransition(IngestionModeFallback))
	suite.True(IngestionModeLive.CanTransition(IngestionModeFallback))

	suite.False(IngestionModeLive.CanTransition(IngestionModeLoading))
	suite.False(IngestionModeFallback.CanTransition(IngestionModeLive))
	suite.False(IngestionModeFallback.CanTransition(IngestionModeLoading))
	suite.False(IngestionModeLoading.CanTransition(IngestionModeLoading))
}

func (suite *SnapshotTestSuite) TestParseSentiment() {
	s, ok := ParseSentiment("BULLISH")
	suite.True(ok)
	suite.Equal(SentimentBullish, s)

	s, ok = ParseSentiment("bullish")
	suite.False(ok)
	suite.Equal(SentimentNeutral, s)

	_, ok = ParseSentiment("MOON")
	suite.False(ok)
}

func (suite *SnapshotTestSuite) TestResultComplete() {
	suite.True(AIAnalysisResult{Summary: "x", Sentiment: SentimentBearish, TechnicalSignal: "y"}.Complete())
	suite.False(AIAnalysisResult{Summary: "", Sentiment: SentimentBearish, TechnicalSignal: "y"}.Complete())
	suite.False(AIAnalysisResult{Summary: "x", Sentiment: "MOON", TechnicalSignal: "y"}.Complete())
}
