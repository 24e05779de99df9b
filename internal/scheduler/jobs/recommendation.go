package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/stockreco/internal/history"
	"github.com/wonny/stockreco/internal/recommend"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// RecommendationJob runs the daily recommendation after market close
// ⭐ SSOT: 일일 추천 스케줄은 이 Job에서만
type RecommendationJob struct {
	workflow *recommend.Workflow
	repo     *history.Repository // nil이면 저장 생략
	config   *config.Config
	logger   *logger.Logger
}

// NewRecommendationJob creates a new daily recommendation job
func NewRecommendationJob(workflow *recommend.Workflow, repo *history.Repository, cfg *config.Config, log *logger.Logger) *RecommendationJob {
	return &RecommendationJob{
		workflow: workflow,
		repo:     repo,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *RecommendationJob) Name() string {
	return "daily_recommendation"
}

// Schedule returns the cron schedule (weekdays at 4:30 PM KST, 장 마감 후)
func (j *RecommendationJob) Schedule() string {
	return "0 30 16 * * 1-5"
}

// Run executes one recommendation run and persists the result
func (j *RecommendationJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled recommendation run")

	result, err := j.workflow.Run(ctx, recommend.Options{WithNews: true})
	if err != nil {
		// 휴장일 등으로 채점 가능 종목이 없으면 재시도 없이 넘어간다
		if errors.Is(err, recommend.ErrNoScorableStocks) {
			j.logger.Warn("채점 가능 종목 없음, 이번 실행 건너뜀")
			return nil
		}
		return fmt.Errorf("recommendation run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"as_of":      result.AsOf,
		"regime":     string(result.Regime),
		"candidates": len(result.Candidates),
	}).Info("Scheduled recommendation completed")

	if j.repo == nil {
		return nil
	}

	if err := j.repo.SaveRun(ctx, j.config.Market, result); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	return nil
}
