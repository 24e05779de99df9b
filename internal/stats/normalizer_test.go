package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_SampleStd(t *testing.T) {
	s := Compute([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	// 표본 분산(n-1): sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std, 1e-12)
}

func TestCompute_SkipsNaN(t *testing.T) {
	s := Compute([]float64{1, math.NaN(), 3})

	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt2, s.Std, 1e-12)
}

func TestCompute_Degenerate(t *testing.T) {
	assert.Equal(t, Stats{}, Compute(nil))
	assert.Equal(t, Stats{}, Compute([]float64{math.NaN()}))

	// 표본 1개는 분산이 정의되지 않는다
	one := Compute([]float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.Equal(t, 0.0, one.Std)
}

func TestZ_ZeroStdReturnsZero(t *testing.T) {
	s := Stats{Mean: 5, Std: 0}

	// 전 종목이 같은 값이면 우열이 없으므로 Z는 0
	assert.Equal(t, 0.0, s.Z(100))
	assert.Equal(t, 0.0, s.Z(5))
}

func TestZ(t *testing.T) {
	s := Stats{Mean: 10, Std: 2}

	assert.InDelta(t, 1.5, s.Z(13), 1e-12)
	assert.InDelta(t, -1.0, s.Z(8), 1e-12)
}

func TestNormalize(t *testing.T) {
	u := UniverseStats{
		Short: Stats{Mean: 0, Std: 0.1},
		Med:   Stats{Mean: 0, Std: 0.2},
		Long:  Stats{Mean: 0, Std: 0},
	}

	z := u.Normalize(0.1, -0.2, 0.5)

	assert.InDelta(t, 1.0, z.Short, 1e-12)
	assert.InDelta(t, -1.0, z.Med, 1e-12)
	assert.Equal(t, 0.0, z.Long)

	// NaN 입력은 0으로 치환 후 정규화
	zn := u.Normalize(math.NaN(), 0, 0)
	assert.Equal(t, 0.0, zn.Short)
}

func TestStdOver(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}

	// 마지막 3개 {4,5,6}의 표본 표준편차는 1
	assert.InDelta(t, 1.0, StdOver(values, 3, 5), 1e-12)

	// 윈도우 미충족 또는 범위 밖이면 NaN
	assert.True(t, math.IsNaN(StdOver(values, 10, 5)))
	assert.True(t, math.IsNaN(StdOver(values, 3, 6)))
}
