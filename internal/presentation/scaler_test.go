package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/stockreco/internal/contracts"
)

func TestScaleTo100_Range(t *testing.T) {
	// 최저점은 0, 최고점은 100
	assert.Equal(t, 0, ScaleTo100(-1, -1, 3, contracts.RegimeNeutral))
	assert.Equal(t, 100, ScaleTo100(3, -1, 3, contracts.RegimeNeutral))
}

func TestScaleTo100_Monotonic(t *testing.T) {
	minRaw, maxRaw := -2.0, 4.0

	last := -1
	for raw := minRaw; raw <= maxRaw; raw += 0.1 {
		got := ScaleTo100(raw, minRaw, maxRaw, contracts.RegimeNeutral)
		assert.GreaterOrEqual(t, got, last, "raw=%.1f", raw)
		last = got
	}
}

func TestScaleTo100_FlatDistribution(t *testing.T) {
	// 전 종목 동점이면 중간값 50
	assert.Equal(t, 50, ScaleTo100(1.5, 1.5, 1.5, contracts.RegimeNeutral))
	assert.Equal(t, 50, ScaleTo100(1.5, 1.5, 1.5, contracts.RegimeBull))
}

func TestScaleTo100_BearCap(t *testing.T) {
	// 하락장 상한 80점
	assert.Equal(t, 80, ScaleTo100(3, -1, 3, contracts.RegimeBear))
	assert.Less(t, ScaleTo100(2, -1, 3, contracts.RegimeBear),
		ScaleTo100(2, -1, 3, contracts.RegimeNeutral))
}

func TestScaleTo100_AllNegativeCap(t *testing.T) {
	// 최고 점수가 음수인 날은 50점 상한
	assert.Equal(t, 50, ScaleTo100(-0.1, -2, -0.1, contracts.RegimeNeutral))
	assert.Equal(t, 50, ScaleTo100(-0.1, -2, -0.1, contracts.RegimeBull))

	// 하락장과 겹치면 더 낮은 상한이 이긴다 (80의 50%)
	assert.Equal(t, 50, ScaleTo100(-0.1, -2, -0.1, contracts.RegimeBear))
}

func TestScaleTo100_KneeAtBottomQuintile(t *testing.T) {
	// 하위 20% 경계가 60점에 대응한다
	got := ScaleTo100(0.2, 0, 1, contracts.RegimeNeutral)
	assert.Equal(t, 60, got)

	// 경계 아래는 [0,60] 구간으로 압축된다
	assert.Equal(t, 30, ScaleTo100(0.1, 0, 1, contracts.RegimeNeutral))

	// 경계 위는 [60,100] 구간으로 늘어난다
	assert.Equal(t, 80, ScaleTo100(0.6, 0, 1, contracts.RegimeNeutral))
}
