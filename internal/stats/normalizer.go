package stats

import "math"

// Stats holds the cross-sectional mean and standard deviation of one signal
// over a reference set of securities.
// 표준편차는 표본 분산(n-1) 기준이다.
type Stats struct {
	Mean float64
	Std  float64
}

// Compute calculates sample mean/std over the given values.
// NaN 값은 집계에서 제외한다.
func Compute(values []float64) Stats {
	n := 0
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Stats{}
	}

	mean := sum / float64(n)
	if n < 2 {
		return Stats{Mean: mean}
	}

	var sq float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sq += d * d
	}

	return Stats{
		Mean: mean,
		Std:  math.Sqrt(sq / float64(n-1)),
	}
}

// Z returns the Z-score of x against the reference set.
// std가 0이면 비교가 무의미하므로 0.0으로 정의한다 (0으로 나누기 방지).
func (s Stats) Z(x float64) float64 {
	if s.Std <= 0 {
		return 0.0
	}
	return (x - s.Mean) / s.Std
}

// UniverseStats holds per-window momentum statistics for the current pass.
// 통계는 패스 단위로 계산되며 전역 캐시하지 않는다.
type UniverseStats struct {
	Short Stats
	Med   Stats
	Long  Stats
}

// MomentumZ holds the per-security momentum Z-scores
type MomentumZ struct {
	Short float64
	Med   float64
	Long  float64
}

// Normalize computes Z-scores for one security's momentum values
func (u UniverseStats) Normalize(short, med, long float64) MomentumZ {
	return MomentumZ{
		Short: u.Short.Z(orZero(short)),
		Med:   u.Med.Z(orZero(med)),
		Long:  u.Long.Z(orZero(long)),
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0.0
	}
	return v
}

// StdOver returns the sample std over a trailing window ending at index end
// (inclusive). 윈도우를 채우지 못하면 NaN을 반환한다.
func StdOver(values []float64, window, end int) float64 {
	start := end - window + 1
	if start < 0 || end >= len(values) {
		return math.NaN()
	}
	return Compute(values[start : end+1]).Std
}
