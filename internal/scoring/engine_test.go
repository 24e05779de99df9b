package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/stats"
	"github.com/wonny/stockreco/internal/strategy"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

func testEngine() *Engine {
	conf := config.FeatureConfig{
		MomShort:       5,
		MomMed:         20,
		MomLong:        60,
		MinTurnoverWon: 5e9,
	}
	rsi := config.RSIThresholds{
		Oversold:          30,
		Overbought:        70,
		StrongOverbought:  80,
		ExtremeOverbought: 90,
	}
	return NewEngine(conf, rsi, logger.Nop())
}

// fixture describes the second-to-last row of a synthetic feature set
type fixture struct {
	rows        int
	close       float64
	valueTraded float64
	rsi         float64
	atrRatio    float64
	ma5         float64
	ma60        float64
}

func makeFeatures(f fixture) *contracts.FeatureSet {
	if f.rows == 0 {
		f.rows = 70
	}
	if f.close == 0 {
		f.close = 10_000
	}
	if f.valueTraded == 0 {
		f.valueTraded = 1e10
	}
	if f.rsi == 0 {
		f.rsi = 50
	}
	if f.ma5 == 0 {
		f.ma5 = f.close * 0.99
	}
	if f.ma60 == 0 {
		f.ma60 = f.close * 0.95
	}

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	series := make(contracts.OhlcvSeries, f.rows)
	for i := range series {
		series[i] = contracts.Candle{
			Date:        start.AddDate(0, 0, i),
			Close:       f.close,
			ValueTraded: f.valueTraded,
		}
	}

	nan := func() []float64 {
		out := make([]float64, f.rows)
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	fs := &contracts.FeatureSet{
		Code:     "005930",
		Series:   series,
		Ret1:     nan(),
		MA5:      nan(),
		MA20:     nan(),
		MA60:     nan(),
		AvgVol20: nan(),
		MomShort: nan(),
		MomMed:   nan(),
		MomLong:  nan(),
		RSI:      nan(),
		ATR:      nan(),
		ATRRatio: nan(),
	}

	prev := f.rows - 2
	fs.MA5[prev] = f.ma5
	fs.MA60[prev] = f.ma60
	fs.MomShort[prev] = 0.05
	fs.MomMed[prev] = 0.10
	fs.MomLong[prev] = 0.20
	fs.RSI[prev] = f.rsi
	fs.ATRRatio[prev] = f.atrRatio

	return fs
}

func defaultProfile() strategy.Profile {
	return strategy.ForName(strategy.Default, logger.Nop())
}

func TestScore_NilOnShortHistory(t *testing.T) {
	engine := testEngine()

	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{rows: 61}),
		Regime:   contracts.RegimeNeutral,
		Profile:  defaultProfile(),
	})

	assert.Nil(t, score)
	assert.Nil(t, engine.Score(Input{Code: "005930", Profile: defaultProfile()}))
}

func TestScore_TurnoverGate(t *testing.T) {
	engine := testEngine()

	// 거래대금 미달은 탈락
	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{valueTraded: 4e9}),
		Regime:   contracts.RegimeNeutral,
		Profile:  defaultProfile(),
	})
	assert.Nil(t, score)

	// 하락장에서는 기준이 1.5배로 강화된다: 6e9는 중립장 통과, 하락장 탈락
	borderline := makeFeatures(fixture{valueTraded: 6e9})

	assert.NotNil(t, engine.Score(Input{
		Code: "005930", Features: borderline,
		Regime: contracts.RegimeNeutral, Profile: defaultProfile(),
	}))
	assert.Nil(t, engine.Score(Input{
		Code: "005930", Features: borderline,
		Regime: contracts.RegimeBear, Profile: defaultProfile(),
	}))
}

func TestScore_CompositeFormula(t *testing.T) {
	engine := testEngine()

	score := engine.Score(Input{
		Code:     "005930",
		Name:     "삼성전자",
		Features: makeFeatures(fixture{atrRatio: 0.05}),
		MomZ:     stats.MomentumZ{Short: 1, Med: 1, Long: 1},
		NewsZ:    1,
		VolZ:     2,
		Regime:   contracts.RegimeNeutral,
		Profile:  defaultProfile(),
		HasNews:  true,
	})
	require.NotNil(t, score)

	// momCore = 0.4+0.3+0.3 = 1.0
	// volPenalty = 0.5*2 + max(0,(0.05-0.03)*10)*0.5 = 1.0 + 0.1 = 1.1
	// news = 0.2*1 = 0.2
	// score = 1.0 - 1.1 + 0.2 = 0.1
	assert.InDelta(t, 0.1, score.Score, 1e-9)

	assert.Contains(t, score.Reason, "mom=1.00")
	assert.Contains(t, score.Reason, "vol_p=1.10")
	assert.Contains(t, score.Reason, "rsi=50")

	require.NotNil(t, score.NewsSentimentScore)
	assert.InDelta(t, 1.0, *score.NewsSentimentScore, 1e-9)

	assert.Equal(t, "삼성전자", score.Name)
	assert.Equal(t, 10_000.0, score.Price)
	assert.InDelta(t, 0.05, score.Momentum.M5, 1e-9)
}

func TestScore_NoNewsOmitsSentimentScore(t *testing.T) {
	engine := testEngine()

	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{}),
		Regime:   contracts.RegimeNeutral,
		Profile:  defaultProfile(),
		HasNews:  false,
	})
	require.NotNil(t, score)

	assert.Nil(t, score.NewsSentimentScore)
}

func TestScore_RSIBonusTag(t *testing.T) {
	engine := testEngine()

	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{rsi: 25}),
		Regime:   contracts.RegimeNeutral,
		Profile:  strategy.ForName(strategy.DayTrader, logger.Nop()),
	})
	require.NotNil(t, score)

	assert.Contains(t, score.Reason, "RSI보너스")
}

func TestScore_MABreachWarning(t *testing.T) {
	engine := testEngine()

	// 종가가 5일선 아래: 단타 전략은 페널티와 경고 태그
	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{close: 10_000, ma5: 10_500}),
		Regime:   contracts.RegimeNeutral,
		Profile:  strategy.ForName(strategy.DayTrader, logger.Nop()),
	})
	require.NotNil(t, score)

	assert.Contains(t, score.Reason, "MA이탈")
	assert.Contains(t, score.Reason, "[주의: 5일선 이탈]")
}

func TestScore_RoundsToTwoDecimals(t *testing.T) {
	engine := testEngine()

	score := engine.Score(Input{
		Code:     "005930",
		Features: makeFeatures(fixture{}),
		MomZ:     stats.MomentumZ{Short: 0.333333, Med: 0.333333, Long: 0.333333},
		Regime:   contracts.RegimeNeutral,
		Profile:  defaultProfile(),
	})
	require.NotNil(t, score)

	assert.Equal(t, score.Score, math.Round(score.Score*100)/100)
}
