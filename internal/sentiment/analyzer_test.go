package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

func testSentimentConfig() config.SentimentConfig {
	return config.SentimentConfig{
		NewsMax:           3,
		ConfidenceNeutral: 0.55,
		ConfidenceStrong:  0.99,
		DecayRate:         0.2,
	}
}

// fakeClassifier replays canned predictions
type fakeClassifier struct {
	preds []Prediction
	err   error
}

func (f *fakeClassifier) Classify(ctx context.Context, headlines []string) ([]Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.preds, nil
}

func TestAnalyze_DecayWeightedScore(t *testing.T) {
	fake := &fakeClassifier{preds: []Prediction{
		{Label: "positive", Confidence: 0.9},
		{Label: "negative", Confidence: 0.8},
		{Label: "positive", Confidence: 0.7},
	}}
	a := NewAnalyzer(testSentimentConfig(), fake, logger.Nop())

	result, err := a.Analyze(context.Background(), []string{"h1", "h2", "h3"})
	require.NoError(t, err)

	// score = 1·e^0 − 1·e^-0.2 + 1·e^-0.4
	want := 1.0 - math.Exp(-0.2) + math.Exp(-0.4)
	assert.InDelta(t, want, result.Score, 1e-9)

	assert.True(t, result.Enabled)
	assert.False(t, result.HasStrongNegative)
	require.Len(t, result.Details, 3)
	assert.Equal(t, "호재", result.Details[0].Label)
	assert.Equal(t, "악재", result.Details[1].Label)
}

func TestAnalyze_LowConfidenceIsNeutral(t *testing.T) {
	fake := &fakeClassifier{preds: []Prediction{
		{Label: "positive", Confidence: 0.54},
	}}
	a := NewAnalyzer(testSentimentConfig(), fake, logger.Nop())

	result, err := a.Analyze(context.Background(), []string{"애매한 제목"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, "중립", result.Details[0].Label)
}

func TestAnalyze_StrongNegativeFlag(t *testing.T) {
	fake := &fakeClassifier{preds: []Prediction{
		{Label: "positive", Confidence: 0.995},
		{Label: "negative", Confidence: 0.992},
	}}
	a := NewAnalyzer(testSentimentConfig(), fake, logger.Nop())

	result, err := a.Analyze(context.Background(), []string{"h1", "h2"})
	require.NoError(t, err)

	// 플래그는 분류 결과에서 직접 계산된다 (라벨 문자열 매칭 아님)
	assert.True(t, result.HasStrongNegative)
	assert.Equal(t, "강력한 호재", result.Details[0].Label)
	assert.Equal(t, "강력한 악재", result.Details[1].Label)
}

func TestAnalyze_NumericLabels(t *testing.T) {
	// 모델에 따라 라벨이 클래스 인덱스로 내려올 수 있다: 2=positive, 0=negative
	fake := &fakeClassifier{preds: []Prediction{
		{Label: "2", Confidence: 0.9},
		{Label: "0", Confidence: 0.9},
	}}
	a := NewAnalyzer(testSentimentConfig(), fake, logger.Nop())

	result, err := a.Analyze(context.Background(), []string{"h1", "h2"})
	require.NoError(t, err)

	assert.Equal(t, "호재", result.Details[0].Label)
	assert.Equal(t, "악재", result.Details[1].Label)
}

func TestAnalyze_NoHeadlinesIsNeutral(t *testing.T) {
	a := NewAnalyzer(testSentimentConfig(), &fakeClassifier{}, logger.Nop())

	result, err := a.Analyze(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, result.Enabled)
	assert.Equal(t, 0.0, result.Score)
}

func TestAnalyze_NilClassifierIsNeutral(t *testing.T) {
	a := NewAnalyzer(testSentimentConfig(), nil, logger.Nop())

	result, err := a.Analyze(context.Background(), []string{"h1"})
	require.NoError(t, err)

	assert.False(t, result.Enabled)
	assert.Equal(t, "model not available", result.Summary)
}

func TestAnalyze_ClassifierErrorPropagates(t *testing.T) {
	a := NewAnalyzer(testSentimentConfig(), &fakeClassifier{err: errors.New("model timeout")}, logger.Nop())

	_, err := a.Analyze(context.Background(), []string{"h1"})
	assert.Error(t, err)
}

func TestAnalyze_PredictionCountMismatch(t *testing.T) {
	fake := &fakeClassifier{preds: []Prediction{{Label: "positive", Confidence: 0.9}}}
	a := NewAnalyzer(testSentimentConfig(), fake, logger.Nop())

	_, err := a.Analyze(context.Background(), []string{"h1", "h2"})
	assert.Error(t, err)
}
