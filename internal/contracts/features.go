package contracts

import "math"

// FeatureSet is an OhlcvSeries augmented with per-row indicator columns.
// 값이 정의되지 않은 구간(윈도우 미충족)은 NaN으로 표시한다.
type FeatureSet struct {
	Code   string
	Series OhlcvSeries

	Ret1     []float64 // 일간 수익률
	MA5      []float64
	MA20     []float64
	MA60     []float64
	AvgVol20 []float64

	MomShort []float64
	MomMed   []float64
	MomLong  []float64

	RSI      []float64
	ATR      []float64
	ATRRatio []float64
}

// FeatureRow is a point-in-time view of one row of a FeatureSet
type FeatureRow struct {
	Close       float64
	ValueTraded float64
	Ret1        float64
	MA5         float64
	MA20        float64
	MA60        float64
	AvgVol20    float64
	MomShort    float64
	MomMed      float64
	MomLong     float64
	RSI         float64
	ATRRatio    float64
}

// Row returns the feature row at index i
func (f *FeatureSet) Row(i int) FeatureRow {
	return FeatureRow{
		Close:       f.Series[i].Close,
		ValueTraded: f.Series[i].ValueTraded,
		Ret1:        f.Ret1[i],
		MA5:         f.MA5[i],
		MA20:        f.MA20[i],
		MA60:        f.MA60[i],
		AvgVol20:    f.AvgVol20[i],
		MomShort:    f.MomShort[i],
		MomMed:      f.MomMed[i],
		MomLong:     f.MomLong[i],
		RSI:         f.RSI[i],
		ATRRatio:    f.ATRRatio[i],
	}
}

// Prev returns the second-to-last row (직전 거래일 기준)
// 당일 미완성 데이터를 피하기 위해 채점은 항상 이 행을 사용한다.
func (f *FeatureSet) Prev() FeatureRow {
	return f.Row(len(f.Series) - 2)
}

// OrDefault replaces NaN with a fallback value
func OrDefault(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}
