package synthetic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type GeneratorTestSuite struct {
	suite.Suite
	fixedNow time.Time
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (suite *GeneratorTestSuite) SetupTest() {
	suite.fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *GeneratorTestSuite) clock() time.Time {
	return suite.fixedNow
}

func (suite *GeneratorTestSuite) TestLengthAndSpacing() {
	gen := NewGenerator(42, WithClock(suite.clock))

	for _, count := range []int{1, 10, 50, 200} {
		history := gen.Generate(64000, count)
		suite.Len(history, count+1)

		for i := 1; i < len(history); i++ {
			suite.Equal(int64(1000), history[i].Timestamp-history[i-1].Timestamp)
		}

		suite.Equal(suite.fixedNow.UnixMilli(), history[len(history)-1].Timestamp)
	}
}

func (suite *GeneratorTestSuite) TestDefaultCount() {
	gen := NewGenerator(1, WithClock(suite.clock))

	suite.Len(gen.Generate(3400, 0), DefaultCount+1)
	suite.Len(gen.Generate(3400, -5), DefaultCount+1)
}

func (suite *GeneratorTestSuite) TestStepBound() {
	for seed := int64(0); seed < 20; seed++ {
		gen := NewGenerator(seed, WithClock(suite.clock))
		start := 3400.0
		history := gen.Generate(start, 100)

		prev := start
		for _, p := range history {
			suite.LessOrEqual(math.Abs(p.Price-prev), start*StepVolatility+1e-9)
			prev = p.Price
		}
	}
}

func (suite *GeneratorTestSuite) TestReproducibility() {
	gen1 := NewGenerator(42, WithClock(suite.clock))
	gen2 := NewGenerator(42, WithClock(suite.clock))

	suite.Equal(gen1.Generate(64000, 50), gen2.Generate(64000, 50))
}

func (suite *GeneratorTestSuite) TestDifferentSeeds() {
	gen1 := NewGenerator(42, WithClock(suite.clock))
	gen2 := NewGenerator(123, WithClock(suite.clock))

	suite.NotEqual(gen1.Generate(64000, 50), gen2.Generate(64000, 50))
}

func (suite *GeneratorTestSuite) TestLabels() {
	gen := NewGenerator(7, WithClock(suite.clock), WithLocation(time.UTC))
	history := gen.Generate(100, 2)

	suite.Equal("12:00", history[len(history)-1].Label)
}

func (suite *GeneratorTestSuite) TestStaysNearStartPrice() {
	gen := NewGenerator(99, WithClock(suite.clock))
	start := 64000.0
	history := gen.Generate(start, 50)

	// 51 bounded steps can drift at most 51 * 0.2%
	for _, p := range history {
		suite.InDelta(start, p.Price, start*StepVolatility*51)
	}
}
