package presentation

import (
	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/config"
)

// starThresholds maps regime to the 4-cutoff star ladder.
// 하락장일수록 별점을 보수적으로 부여한다.
var starThresholds = map[contracts.Regime][4]int{
	contracts.RegimeBull:    {60, 70, 80, 90},
	contracts.RegimeNeutral: {65, 75, 85, 95},
	contracts.RegimeBear:    {70, 80, 90, 97},
}

// StockStars assigns a 1~5 star rating from the display score with risk
// overlays. RSI 과열과 강력한 악재 뉴스는 별점 상한으로 작용한다.
func StockStars(item contracts.RecoItem, regime contracts.Regime, th config.RSIThresholds) int {
	thresholds, ok := starThresholds[regime]
	if !ok {
		thresholds = starThresholds[contracts.RegimeNeutral]
	}

	score := item.Score
	rsi := item.Momentum.RSI

	stars := 1
	switch {
	case score >= thresholds[3]:
		stars = 5
	case score >= thresholds[2]:
		stars = 4
	case score >= thresholds[1]:
		stars = 3
	case score >= thresholds[0]:
		stars = 2
	}

	// 리스크 필터 (RSI 과열, 뉴스 악재)
	if rsi >= th.StrongOverbought {
		stars = min(stars, 4)
	}
	if rsi >= th.ExtremeOverbought {
		stars = min(stars, 3)
	}
	if item.NewsSentiment != nil && item.NewsSentiment.HasStrongNegative {
		stars = min(stars, 3)
	}

	return stars
}
