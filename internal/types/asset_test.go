package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-pulse/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AssetTestSuite struct {
	suite.Suite
}

func TestAssetSuite(t *testing.T) {
	suite.Run(t, new(AssetTestSuite))
}

func (suite *AssetTestSuite) TestTrackedAssets() {
	suite.Equal([]AssetID{AssetBTC, AssetETH}, TrackedAssets())
}

func (suite *AssetTestSuite) TestInfo() {
	info, ok := AssetBTC.Info()
	suite.True(ok)
	suite.Equal("Bitcoin", info.DisplayName)
	suite.Equal("BTCUSDT", info.FeedSymbol)
	suite.Equal("bitcoin", info.SourceID)
	suite.Equal(64000.0, info.SeedPrice)

	info, ok = AssetETH.Info()
	suite.True(ok)
	suite.Equal(3400.0, info.SeedPrice)
	suite.Equal(-0.2, info.FallbackChangePercent)

	_, ok = AssetID("DOGE").Info()
	suite.False(ok)
}

func (suite *AssetTestSuite) TestParseAsset() {
	id, err := ParseAsset(" eth ")
	suite.NoError(err)
	suite.Equal(AssetETH, id)

	_, err = ParseAsset("doge")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownAsset))
}

func (suite *AssetTestSuite) TestAssetForFeedSymbol() {
	id, ok := AssetForFeedSymbol("ETHUSDT")
	suite.True(ok)
	suite.Equal(AssetETH, id)

	id, ok = AssetForFeedSymbol("btcusdt")
	suite.True(ok)
	suite.Equal(AssetBTC, id)

	_, ok = AssetForFeedSymbol("SOLUSDT")
	suite.False(ok)
}

func (suite *AssetTestSuite) TestDisplayName() {
	suite.Equal("Ethereum", AssetETH.DisplayName())
	suite.Equal("XRP", AssetID("XRP").DisplayName())
}

func (suite *AssetTestSuite) TestFormatTimes() {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC).UnixMilli()

	suite.Equal("15:04:05", FormatChartTime(ts, nil))
	suite.Equal("15:04", FormatAxisTime(ts, time.UTC))

	tokyo := time.FixedZone("JST", 9*60*60)
	suite.Equal("00:04:05", FormatChartTime(ts, tokyo))
}

func (suite *AssetTestSuite) TestFormatCurrency() {
	suite.Equal("$64,000.00", FormatCurrency(64000))
	suite.Equal("$3,400.50", FormatCurrency(3400.5))
	suite.Equal("$0.12", FormatCurrency(0.1234))
	suite.Equal("-$20.00", FormatCurrency(-20))
}
