package presentation

import (
	"math"

	"github.com/wonny/stockreco/internal/contracts"
)

// ScaleTo100 maps a raw score into the 0~100 display range.
// 시장 상황에 따라 상한(cap)을 적용한다:
//   - BEAR: 80점 상한
//   - 유니버스 최고 점수가 음수(전반적으로 부진한 날): 50점 상한
//
// 분포의 하위 20% 구간은 [0,60]으로 압축하고 나머지를 [60,100]으로
// 늘려서 상위권의 시각적 변별력을 높인다.
func ScaleTo100(score, minRaw, maxRaw float64, regime contracts.Regime) int {
	scoreCap := 100.0
	if regime == contracts.RegimeBear {
		scoreCap = 80.0
	}
	if maxRaw < 0.0 {
		scoreCap = math.Min(scoreCap, 50.0)
	}

	if maxRaw == minRaw {
		return 50
	}

	normalized := (score - minRaw) / (maxRaw - minRaw)

	var scaled float64
	if normalized < 0.2 {
		scaled = normalized / 0.2 * 60
	} else {
		scaled = 60 + (normalized-0.2)/0.8*40
	}

	return int(scaled * (scoreCap / 100.0))
}
