package pulse

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/rxtech-lab/argo-pulse/internal/bootstrap"
	"github.com/rxtech-lab/argo-pulse/internal/insight"
	"github.com/rxtech-lab/argo-pulse/internal/logger"
	"github.com/rxtech-lab/argo-pulse/internal/store"
	"github.com/rxtech-lab/argo-pulse/internal/stream"
	"github.com/rxtech-lab/argo-pulse/internal/synthetic"
	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/mocks"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider"
)

// fakeFeed delivers its ticks and returns err. With ends unset and no err it
// waits for cancellation instead.
type fakeFeed struct {
	ticks  []stream.Tick
	err    error
	ends   bool
	called chan struct{}
}

func newFakeFeed(ticks []stream.Tick, err error) *fakeFeed {
	return &fakeFeed{ticks: ticks, err: err, called: make(chan struct{})}
}

func (f *fakeFeed) Consume(ctx context.Context, onTick func(stream.Tick)) error {
	close(f.called)

	for _, t := range f.ticks {
		onTick(t)
	}

	if f.err != nil || f.ends {
		return f.err
	}

	<-ctx.Done()

	return nil
}

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockHistoryProvider
	cancel   context.CancelFunc
	done     chan error
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockHistoryProvider(suite.ctrl)
	suite.provider.EXPECT().Name().Return("coingecko").AnyTimes()
}

func (suite *ServiceTestSuite) TearDownTest() {
	if suite.cancel != nil {
		suite.cancel()
		suite.NoError(<-suite.done)
		suite.cancel = nil
	}

	suite.ctrl.Finish()
}

func (suite *ServiceTestSuite) start(feed Feed, opts ...Option) *Service {
	log := logger.NewNopLogger()
	gen := synthetic.NewGenerator(1)
	loader := bootstrap.NewLoader(suite.provider, log, bootstrap.WithGenerator(gen))
	service := NewService(store.New(log), loader, feed, insight.NewAnalyzer(nil, 0, log), log, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	suite.cancel = cancel
	suite.done = make(chan error, 1)

	go func() {
		suite.done <- service.Run(ctx)
	}()

	return service
}

func (suite *ServiceTestSuite) expectHistory() {
	suite.provider.EXPECT().FetchHistory(gomock.Any(), types.AssetBTC).
		Return([]provider.PriceSample{{Timestamp: 1000, Price: 64000}, {Timestamp: 2000, Price: 64100}}, nil)
	suite.provider.EXPECT().FetchHistory(gomock.Any(), types.AssetETH).
		Return([]provider.PriceSample{{Timestamp: 1000, Price: 3400}, {Timestamp: 2000, Price: 3390}}, nil)
}

func (suite *ServiceTestSuite) waitForMode(service *Service, mode types.IngestionMode) {
	suite.Eventually(func() bool {
		return service.Store().Mode() == mode && !service.Store().IsLoading()
	}, 2*time.Second, 5*time.Millisecond)
}

func (suite *ServiceTestSuite) TestLiveModeAppliesTicks() {
	suite.expectHistory()

	tickTime := time.Date(2024, 5, 1, 10, 11, 12, 0, time.UTC).UnixMilli()
	feed := newFakeFeed([]stream.Tick{{Asset: types.AssetETH, Price: 3395, Timestamp: tickTime}}, nil)

	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeLive)

	suite.Eventually(func() bool {
		eth, err := service.Store().Get(types.AssetETH)
		return err == nil && len(eth.History) == 3
	}, 2*time.Second, 5*time.Millisecond)

	eth, err := service.Store().Get(types.AssetETH)
	suite.NoError(err)
	suite.Equal(3395.0, eth.CurrentPrice)
	suite.Equal("10:11:12", eth.History[2].Label)
	// ticks never recompute the 24h statistics
	suite.Equal(-10.0, eth.Change24h)
	suite.Equal(3400.0, eth.High24h)
	suite.Equal(types.VolumeRealtime, eth.Volume)

	btc, err := service.Store().Get(types.AssetBTC)
	suite.NoError(err)
	suite.Equal(64100.0, btc.CurrentPrice)
}

func (suite *ServiceTestSuite) TestBootstrapFailureFallsBack() {
	suite.provider.EXPECT().FetchHistory(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("http 429")).AnyTimes()

	feed := newFakeFeed(nil, nil)
	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeFallback)

	for _, asset := range types.TrackedAssets() {
		snap, err := service.Store().Get(asset)
		suite.NoError(err)
		suite.Equal(types.VolumeSimulated, snap.Volume)
		suite.Len(snap.History, types.HistoryWindow)
	}

	select {
	case <-feed.called:
		suite.Fail("feed must not start in fallback mode")
	case <-time.After(50 * time.Millisecond):
	}
}

func (suite *ServiceTestSuite) TestStreamFailureDegrades() {
	suite.expectHistory()

	feed := newFakeFeed(nil, errors.New(errors.ErrCodeStreamFailed, "read failed"))
	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeFallback)

	// last live snapshot is kept
	btc, err := service.Store().Get(types.AssetBTC)
	suite.NoError(err)
	suite.Equal(types.VolumeRealtime, btc.Volume)
	suite.Equal(64100.0, btc.CurrentPrice)
}

func (suite *ServiceTestSuite) TestRemoteCloseDegrades() {
	suite.expectHistory()

	feed := newFakeFeed(nil, nil)
	feed.ends = true

	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeFallback)

	btc, err := service.Store().Get(types.AssetBTC)
	suite.NoError(err)
	suite.Equal(types.VolumeRealtime, btc.Volume)
}

func (suite *ServiceTestSuite) TestStreamFailureWithoutDegrade() {
	suite.expectHistory()

	feed := newFakeFeed(nil, errors.New(errors.ErrCodeStreamFailed, "read failed"))
	service := suite.start(feed, WithDegradeOnStreamFailure(false))
	suite.waitForMode(service, types.IngestionModeLive)

	<-feed.called
	suite.Never(func() bool {
		return service.Store().Mode() != types.IngestionModeLive
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func (suite *ServiceTestSuite) TestAnalyze() {
	suite.expectHistory()

	service := suite.start(newFakeFeed(nil, nil))
	suite.waitForMode(service, types.IngestionModeLive)

	result, err := service.Analyze(context.Background(), types.AssetBTC)
	suite.NoError(err)
	suite.Equal(insight.MissingKeyResult(), result)

	_, err = service.Analyze(context.Background(), "DOGE")
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownAsset))
}

func (suite *ServiceTestSuite) TestPartialBootstrapFailureFallsBackForAllAssets() {
	suite.provider.EXPECT().FetchHistory(gomock.Any(), types.AssetBTC).
		Return([]provider.PriceSample{{Timestamp: 1000, Price: 64000}, {Timestamp: 2000, Price: 64100}}, nil).AnyTimes()
	suite.provider.EXPECT().FetchHistory(gomock.Any(), types.AssetETH).
		Return(nil, stderrors.New("http 500")).AnyTimes()

	feed := newFakeFeed(nil, nil)
	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeFallback)

	for _, asset := range types.TrackedAssets() {
		info, ok := asset.Info()
		suite.Require().True(ok)

		snap, err := service.Store().Get(asset)
		suite.NoError(err)
		suite.Equal(types.VolumeSimulated, snap.Volume)
		suite.Len(snap.History, types.HistoryWindow)
		suite.Equal(info.FallbackChange, snap.Change24h)
	}

	select {
	case <-feed.called:
		suite.Fail("feed must not start in fallback mode")
	case <-time.After(50 * time.Millisecond):
	}
}

func (suite *ServiceTestSuite) TestOutOfOrderTickIsDropped() {
	suite.expectHistory()

	feed := newFakeFeed([]stream.Tick{
		{Asset: types.AssetETH, Price: 3300, Timestamp: 1500},
		{Asset: types.AssetETH, Price: 3395, Timestamp: 3000},
	}, nil)

	service := suite.start(feed)
	suite.waitForMode(service, types.IngestionModeLive)

	suite.Eventually(func() bool {
		eth, err := service.Store().Get(types.AssetETH)
		return err == nil && eth.CurrentPrice == 3395
	}, 2*time.Second, 5*time.Millisecond)

	eth, err := service.Store().Get(types.AssetETH)
	suite.NoError(err)
	suite.Require().Len(eth.History, 3)
	suite.Equal([]int64{1000, 2000, 3000}, []int64{eth.History[0].Timestamp, eth.History[1].Timestamp, eth.History[2].Timestamp})
}

func (suite *ServiceTestSuite) TestAnalyzeStrictWithoutModel() {
	suite.expectHistory()

	service := suite.start(newFakeFeed(nil, nil))
	suite.waitForMode(service, types.IngestionModeLive)

	snapshot, err := service.Store().Get(types.AssetETH)
	suite.Require().NoError(err)

	_, err = service.AnalyzeStrict(context.Background(), snapshot)
	suite.True(errors.HasCode(err, errors.ErrCodeModelNotConfigured))
}
