package features

import (
	"math"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// wilderPeriod is the smoothing period for RSI/ATR (Wilder 표준)
const wilderPeriod = 14

// minIndicatorRows is the minimum series length for RSI/ATR computation.
// 미만이면 중립 기본값(RSI 50, ATR ratio 0)을 사용한다.
const minIndicatorRows = 21

// Engine derives per-security indicator series from OHLCV history
// ⭐ SSOT: 기술적 지표 계산은 여기서만
type Engine struct {
	conf   config.FeatureConfig
	logger *logger.Logger
}

// NewEngine creates a new feature engine
func NewEngine(conf config.FeatureConfig, log *logger.Logger) *Engine {
	return &Engine{
		conf:   conf,
		logger: log,
	}
}

// HasSufficientHistory reports whether the series is long enough to score.
// 미달 종목은 건너뛰며 전체 실행을 실패시키지 않는다.
func (e *Engine) HasSufficientHistory(series contracts.OhlcvSeries) bool {
	return series.Len() >= e.conf.MinRows()
}

// Compute derives the full indicator set for one security
func (e *Engine) Compute(code string, series contracts.OhlcvSeries) *contracts.FeatureSet {
	n := series.Len()
	closes := series.Closes()

	fs := &contracts.FeatureSet{
		Code:   code,
		Series: series,

		Ret1:     pctChange(closes, 1),
		MA5:      rollingMean(closes, 5),
		MA20:     rollingMean(closes, 20),
		MA60:     rollingMean(closes, 60),
		AvgVol20: rollingMean(volumes(series), 20),

		MomShort: pctChange(closes, e.conf.MomShort),
		MomMed:   pctChange(closes, e.conf.MomMed),
		MomLong:  pctChange(closes, e.conf.MomLong),
	}

	if n >= minIndicatorRows {
		fs.RSI = computeRSI(closes, wilderPeriod)
		fs.ATR = computeATR(series, wilderPeriod)
		fs.ATRRatio = make([]float64, n)
		for i := range fs.ATRRatio {
			// 가격이 다른 종목끼리 비교할 수 있도록 주가 대비 비율로 정규화
			if math.IsNaN(fs.ATR[i]) || closes[i] == 0 {
				fs.ATRRatio[i] = math.NaN()
			} else {
				fs.ATRRatio[i] = fs.ATR[i] / closes[i]
			}
		}
	} else {
		fs.RSI = filled(n, 50.0)
		fs.ATR = filled(n, math.NaN())
		fs.ATRRatio = filled(n, 0.0)
	}

	return fs
}

// pctChange computes close[t]/close[t-w] - 1, NaN while the lookback is unfilled
func pctChange(values []float64, w int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < w || values[i-w] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-w] - 1
	}
	return out
}

// rollingMean computes a trailing simple mean, NaN until the window fills
func rollingMean(values []float64, w int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i := range values {
		sum += values[i]
		if i >= w {
			sum -= values[i-w]
		}
		if i < w-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(w)
	}
	return out
}

func volumes(series contracts.OhlcvSeries) []float64 {
	out := make([]float64, len(series))
	for i, c := range series {
		out[i] = c.Volume
	}
	return out
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
