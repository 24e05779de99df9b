package contracts

import "time"

// Candle represents one daily OHLCV row for a security
type Candle struct {
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	ValueTraded float64   `json:"value_traded"` // 거래대금 (원)
}

// OhlcvSeries is an ordered-by-date price history for one security.
// 한 번의 분석 동안 불변 스냅샷으로 취급한다.
type OhlcvSeries []Candle

// Len returns the number of rows
func (s OhlcvSeries) Len() int {
	return len(s)
}

// Closes returns the close column
func (s OhlcvSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Last returns the most recent candle
func (s OhlcvSeries) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Listing identifies one security in the universe
type Listing struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
