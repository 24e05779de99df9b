package features

import (
	"math"

	"github.com/wonny/stockreco/internal/contracts"
)

// wilderSmooth applies Wilder's smoothing to a series:
//
//	avg[t] = avg[t-1]*(1-α) + x[t]*α,  α = 1/period
//
// 첫 period개 유효 표본의 단순 평균으로 시드하며, 그 이전 구간은 NaN이다.
// 선행 NaN(예: 첫 diff 값)은 표본으로 세지 않는다.
func wilderSmooth(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}

	alpha := 1.0 / float64(period)

	seen := 0
	seedSum := 0.0
	prev := math.NaN()

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}

		if seen < period {
			seedSum += v
			seen++
			if seen == period {
				prev = seedSum / float64(period)
				out[i] = prev
			}
			continue
		}

		prev = prev*(1-alpha) + v*alpha
		out[i] = prev
	}

	return out
}

// computeRSI computes the Wilder-smoothed Relative Strength Index
func computeRSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	gains[0] = math.NaN()
	losses[0] = math.NaN()

	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	avgGain := wilderSmooth(gains, period)
	avgLoss := wilderSmooth(losses, period)

	rsi := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]):
			rsi[i] = math.NaN()
		case avgLoss[i] == 0 && avgGain[i] == 0:
			rsi[i] = 50.0
		case avgLoss[i] == 0:
			rsi[i] = 100.0
		default:
			rs := avgGain[i] / avgLoss[i]
			rsi[i] = 100 - 100/(1+rs)
		}
	}

	return rsi
}

// computeATR computes the Wilder-smoothed Average True Range
func computeATR(series contracts.OhlcvSeries, period int) []float64 {
	n := series.Len()
	tr := make([]float64, n)

	for i := 0; i < n; i++ {
		c := series[i]
		if i == 0 {
			tr[i] = c.High - c.Low
			continue
		}
		prevClose := series[i-1].Close
		tr[i] = math.Max(c.High-c.Low,
			math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
	}

	return wilderSmooth(tr, period)
}
