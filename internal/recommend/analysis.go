package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/presentation"
)

// TechnicalAnalysis summarizes one security's current indicator state
type TechnicalAnalysis struct {
	Price      float64 `json:"price"`
	MA5        float64 `json:"ma5"`
	MA20       float64 `json:"ma20"`
	MA60       float64 `json:"ma60"`
	RSI        float64 `json:"rsi"`
	ATRRatio   float64 `json:"atr_ratio"`
	Volatility float64 `json:"volatility_20d"`
	Momentum   contracts.MomentumSnapshot `json:"momentum"`
	Summary    string  `json:"summary"`
}

// StockAnalysis is the on-demand single-stock analysis result
type StockAnalysis struct {
	Code      string                   `json:"code"`
	Name      string                   `json:"name"`
	AsOf      string                   `json:"as_of"`
	Technical *TechnicalAnalysis       `json:"technical,omitempty"`
	News      *contracts.NewsSentiment `json:"news_sentiment,omitempty"`
}

// Analyze runs a detailed analysis for a single security.
// 랭킹과 무관한 단건 조회이므로 유니버스 통계는 계산하지 않는다.
func (w *Workflow) Analyze(ctx context.Context, code, name string, withNews bool) (*StockAnalysis, error) {
	asOf := time.Now().In(seoulLocation())
	if name == "" {
		name = code
	}

	result := &StockAnalysis{
		Code: code,
		Name: name,
		AsOf: asOf.Format("2006-01-02"),
	}

	series, err := w.data.FetchOhlcv(ctx, code, asOf, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history for %s: %w", code, err)
	}

	if w.features.HasSufficientHistory(series) {
		fs := w.features.Compute(code, series)
		prev := fs.Prev()

		result.Technical = &TechnicalAnalysis{
			Price:      prev.Close,
			MA5:        contracts.OrDefault(prev.MA5, 0),
			MA20:       contracts.OrDefault(prev.MA20, 0),
			MA60:       contracts.OrDefault(prev.MA60, 0),
			RSI:        contracts.OrDefault(prev.RSI, 50.0),
			ATRRatio:   contracts.OrDefault(prev.ATRRatio, 0),
			Volatility: realizedVolatility(fs),
			Momentum: contracts.MomentumSnapshot{
				M5:  contracts.OrDefault(prev.MomShort, 0),
				M20: contracts.OrDefault(prev.MomMed, 0),
				M60: contracts.OrDefault(prev.MomLong, 0),
				RSI: contracts.OrDefault(prev.RSI, 50.0),
			},
			Summary: presentation.MAComment(prev.Close,
				contracts.OrDefault(prev.MA5, 0),
				contracts.OrDefault(prev.MA20, 0),
				contracts.OrDefault(prev.MA60, 0)),
		}
	} else {
		w.logger.WithField("code", code).Warn("이력 부족으로 기술적 분석 생략")
	}

	if withNews {
		result.News = w.sentiment.ForStock(ctx, code, name)
	}

	return result, nil
}
