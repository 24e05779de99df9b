package finbert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wonny/stockreco/internal/sentiment"
	"github.com/wonny/stockreco/pkg/logger"
)

// Client calls a text-classification serving endpoint (KR-FinBert-SC 계열)
// ⭐ SSOT: 감성 모델 서버 호출은 이 클라이언트에서만
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	endpoint   string
}

// NewClient creates a new classifier client.
// endpoint는 HuggingFace text-classification 서빙 규격을 따르는 URL이다.
func NewClient(endpoint string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
		endpoint:   endpoint,
	}
}

type classifyRequest struct {
	Inputs []string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends headlines to the model server and returns one prediction
// per headline (최고 점수 라벨 기준)
func (c *Client) Classify(ctx context.Context, headlines []string) ([]sentiment.Prediction, error) {
	body, err := json.Marshal(classifyRequest{Inputs: headlines})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call sentiment model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sentiment model returned %d: %s", resp.StatusCode, string(data))
	}

	// 입력당 전체 라벨 분포가 내려온다: [[{label,score}, ...], ...]
	var raw [][]labelScore
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	if len(raw) != len(headlines) {
		return nil, fmt.Errorf("model returned %d results for %d headlines", len(raw), len(headlines))
	}

	preds := make([]sentiment.Prediction, len(raw))
	for i, scores := range raw {
		best := labelScore{Label: "neutral"}
		for _, s := range scores {
			if s.Score > best.Score {
				best = s
			}
		}
		preds[i] = sentiment.Prediction{
			Label:      best.Label,
			Confidence: best.Score,
		}
	}

	return preds, nil
}
