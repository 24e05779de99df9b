package contracts

// MomentumSnapshot carries the raw momentum values behind a score
type MomentumSnapshot struct {
	M5  float64 `json:"m5"`
	M20 float64 `json:"m20"`
	M60 float64 `json:"m60"`
	RSI float64 `json:"rsi"`
}

// StockScore is the raw composite score for one security in one pass.
// 패스마다 새로 생성하며 제자리 수정하지 않는다.
type StockScore struct {
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Score              float64          `json:"score"`
	Reason             string           `json:"reason"`
	Momentum           MomentumSnapshot `json:"momentum"`
	NewsSentimentScore *float64         `json:"news_sentiment_score,omitempty"`
	Price              float64          `json:"price"` // 분석 시점의 전일 종가
}

// RecoItem is a finalized recommendation entry
type RecoItem struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Score         int              `json:"score"` // 0~100 표시 점수
	Stars         int              `json:"stars"` // 1~5 별점
	Weight        float64          `json:"weight"`
	Price         float64          `json:"price"`
	Reason        string           `json:"reason"`
	Momentum      MomentumSnapshot `json:"momentum"`
	NewsSentiment *NewsSentiment   `json:"news_sentiment,omitempty"`
}

// RecoResult is the output of one recommendation run
type RecoResult struct {
	AsOf       string     `json:"as_of"`
	Regime     Regime     `json:"market_regime"`
	Strategy   string     `json:"strategy"`
	Candidates []RecoItem `json:"candidates"`
}
