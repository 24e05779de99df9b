package contracts

// NewsSentimentDetail is the classification result for one headline
type NewsSentimentDetail struct {
	Title      string  `json:"title"`
	Label      string  `json:"label"` // 호재/악재/중립 (강력한 접두 포함)
	Confidence float64 `json:"confidence"`
}

// NewsSentiment aggregates headline sentiment for one security.
// Score는 최신 뉴스에 지수 감쇠 가중치를 적용해 합산한 값이다.
// HasStrongNegative는 분류 시점에 한 번 계산되는 구조화된 플래그로,
// 별점 산정의 악재 필터가 이 필드만 본다.
type NewsSentiment struct {
	Enabled           bool                  `json:"enabled"`
	Score             float64               `json:"score"`
	Summary           string                `json:"summary"`
	HasStrongNegative bool                  `json:"has_strong_negative_news"`
	Details           []NewsSentimentDetail `json:"details"`
}

// Neutral returns the zero-contribution sentiment used when news data
// is unavailable for a security
func NeutralSentiment(summary string) *NewsSentiment {
	return &NewsSentiment{
		Enabled: false,
		Score:   0.0,
		Summary: summary,
		Details: []NewsSentimentDetail{},
	}
}
