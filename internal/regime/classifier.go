package regime

import (
	"context"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/logger"
)

// benchmarkLookbackDays is the fetch window for the benchmark index
const benchmarkLookbackDays = 30

// minBenchmarkRows is the minimum history needed for a verdict
const minBenchmarkRows = 20

// benchmarkTickers maps market to its proxy ETF
// KOSPI: KODEX 200, KOSDAQ: KODEX 코스닥150
var benchmarkTickers = map[string]string{
	"KS": "069500",
	"KQ": "229200",
}

// BenchmarkProvider supplies benchmark index OHLCV history
type BenchmarkProvider interface {
	FetchOhlcv(ctx context.Context, code string, asOf time.Time, lookbackDays int) (contracts.OhlcvSeries, error)
}

// Classifier labels the overall market as BULL/BEAR/NEUTRAL
// ⭐ SSOT: 시장 국면 판단은 여기서만
type Classifier struct {
	data   BenchmarkProvider
	logger *logger.Logger
}

// NewClassifier creates a new market regime classifier
func NewClassifier(data BenchmarkProvider, log *logger.Logger) *Classifier {
	return &Classifier{
		data:   data,
		logger: log,
	}
}

// Determine compares the benchmark's last close to its 20-day moving average.
// 조회 실패나 데이터 부족은 치명적이지 않으며 NEUTRAL로 강등된다.
func (c *Classifier) Determine(ctx context.Context, market string, asOf time.Time) contracts.Regime {
	ticker, ok := benchmarkTickers[market]
	if !ok {
		ticker = benchmarkTickers["KS"]
	}

	series, err := c.data.FetchOhlcv(ctx, ticker, asOf, benchmarkLookbackDays)
	if err != nil {
		c.logger.WithError(err).Warn("시장 상황 판단 실패, NEUTRAL로 진행")
		return contracts.RegimeNeutral
	}

	if series.Len() < minBenchmarkRows {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"rows":   series.Len(),
		}).Warn("벤치마크 데이터 부족, NEUTRAL로 진행")
		return contracts.RegimeNeutral
	}

	lastClose := series[series.Len()-1].Close
	ma20 := trailingMean(series, minBenchmarkRows)

	result := contracts.RegimeNeutral
	switch {
	case lastClose > ma20:
		result = contracts.RegimeBull
	case lastClose < ma20:
		result = contracts.RegimeBear
	}

	c.logger.WithFields(map[string]interface{}{
		"regime":     string(result),
		"ticker":     ticker,
		"last_close": lastClose,
		"ma20":       ma20,
	}).Info("시장 상황 판단")

	return result
}

// trailingMean computes the simple mean of the last w closes
func trailingMean(series contracts.OhlcvSeries, w int) float64 {
	var sum float64
	for i := series.Len() - w; i < series.Len(); i++ {
		sum += series[i].Close
	}
	return sum / float64(w)
}
