package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// Prediction is one headline's raw classification from the external model
type Prediction struct {
	Label      string  // positive / negative / neutral
	Confidence float64 // 0.0 ~ 1.0
}

// Classifier is the external sentiment model.
// 모델 자체는 외부 협력자이며 이 코어는 분류 결과만 소비한다.
type Classifier interface {
	Classify(ctx context.Context, headlines []string) ([]Prediction, error)
}

// Analyzer converts classified headlines into one decay-weighted scalar
// plus a structured strong-negative flag
// ⭐ SSOT: 감성 점수 집계는 여기서만
type Analyzer struct {
	conf       config.SentimentConfig
	classifier Classifier
	logger     *logger.Logger
}

// NewAnalyzer creates a new sentiment analyzer.
// classifier가 nil이면 감성 분석은 비활성 상태로 동작한다.
func NewAnalyzer(conf config.SentimentConfig, classifier Classifier, log *logger.Logger) *Analyzer {
	return &Analyzer{
		conf:       conf,
		classifier: classifier,
		logger:     log,
	}
}

// Analyze aggregates headline sentiment into a NewsSentiment.
// 최신 뉴스(앞쪽 항목)에 지수 감쇠 가중치를 부여한다:
//
//	score = Σ value_i · exp(−decay_rate · i)
func (a *Analyzer) Analyze(ctx context.Context, headlines []string) (*contracts.NewsSentiment, error) {
	if len(headlines) == 0 {
		return contracts.NeutralSentiment("no headlines"), nil
	}
	if a.classifier == nil {
		return contracts.NeutralSentiment("model not available"), nil
	}

	preds, err := a.classifier.Classify(ctx, headlines)
	if err != nil {
		return nil, fmt.Errorf("classify headlines: %w", err)
	}
	if len(preds) != len(headlines) {
		return nil, fmt.Errorf("classifier returned %d predictions for %d headlines", len(preds), len(headlines))
	}

	result := &contracts.NewsSentiment{
		Enabled: true,
		Details: make([]contracts.NewsSentimentDetail, 0, len(headlines)),
	}

	for i, pred := range preds {
		label, value := a.interpret(pred)

		weight := math.Exp(-a.conf.DecayRate * float64(i))
		result.Score += float64(value) * weight

		// 강력한 악재 플래그는 분류 시점에 한 번 계산 (문자열 매칭 금지)
		if value < 0 && pred.Confidence >= a.conf.ConfidenceStrong {
			result.HasStrongNegative = true
		}

		result.Details = append(result.Details, contracts.NewsSentimentDetail{
			Title:      headlines[i],
			Label:      label,
			Confidence: round3(pred.Confidence),
		})
	}

	result.Summary = fmt.Sprintf("최근 뉴스 %d건 분석 완료", len(result.Details))
	return result, nil
}

// interpret maps a raw prediction to a display label and sentiment value
// (-1, 0, 1). 신뢰도가 낮으면 중립으로 처리한다.
func (a *Analyzer) interpret(pred Prediction) (string, int) {
	if pred.Confidence < a.conf.ConfidenceNeutral {
		return "중립", 0
	}

	strong := pred.Confidence >= a.conf.ConfidenceStrong

	switch strings.ToLower(pred.Label) {
	case "positive", "2":
		if strong {
			return "강력한 호재", 1
		}
		return "호재", 1
	case "negative", "0":
		if strong {
			return "강력한 악재", -1
		}
		return "악재", -1
	default:
		return "중립", 0
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
