package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-pulse/internal/types"
	"github.com/rxtech-lab/argo-pulse/pkg/errors"
)

type TickTestSuite struct {
	suite.Suite
}

func TestTickSuite(t *testing.T) {
	suite.Run(t, new(TickTestSuite))
}

func (suite *TickTestSuite) TestParseCombinedEnvelope() {
	raw := `{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","p":"64123.45","q":"0.010","T":1700000000123}}`

	tick, err := ParseMessage([]byte(raw))
	suite.NoError(err)
	suite.Equal(Tick{Asset: types.AssetBTC, Price: 64123.45, Timestamp: 1700000000123}, tick)
}

func (suite *TickTestSuite) TestParseBareTick() {
	tick, err := ParseMessage([]byte(`{"s":"ETHUSDT","p":"3400.5","T":1700000000000}`))
	suite.NoError(err)
	suite.Equal(types.AssetETH, tick.Asset)
	suite.Equal(3400.5, tick.Price)
}

func (suite *TickTestSuite) TestParseMalformed() {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `not json`},
		{name: "array", raw: `[1,2]`},
		{name: "missing symbol", raw: `{"p":"1","T":1}`},
		{name: "missing price", raw: `{"s":"BTCUSDT","T":1}`},
		{name: "missing time", raw: `{"s":"BTCUSDT","p":"1"}`},
		{name: "bad price", raw: `{"s":"BTCUSDT","p":"abc","T":1}`},
		{name: "zero price", raw: `{"s":"BTCUSDT","p":"0","T":1}`},
		{name: "negative price", raw: `{"s":"BTCUSDT","p":"-5","T":1}`},
		{name: "nan price", raw: `{"s":"BTCUSDT","p":"NaN","T":1}`},
		{name: "bad data", raw: `{"stream":"btcusdt@trade","data":"oops"}`},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseMessage([]byte(tc.raw))
			suite.True(errors.HasCode(err, errors.ErrCodeMalformedTick), "got %v", err)
		})
	}
}

func (suite *TickTestSuite) TestParseUnknownSymbol() {
	_, err := ParseMessage([]byte(`{"s":"SOLUSDT","p":"150","T":1}`))
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownAsset))
}

func (suite *TickTestSuite) TestPricePoint() {
	tick := Tick{Asset: types.AssetBTC, Price: 1, Timestamp: time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC).UnixMilli()}

	p := tick.PricePoint(nil)
	suite.Equal("13:04:05", p.Label)
	suite.Equal(tick.Timestamp, p.Timestamp)
}
