package sentiment

import (
	"context"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/logger"
)

// NewsFetcher supplies recent headlines for one security (최신순)
type NewsFetcher interface {
	FetchNewsTitles(ctx context.Context, query string, limit int) ([]string, error)
}

// Service resolves the per-security sentiment used by the scoring pass.
// 개별 종목 실패는 중립(0.0)으로 처리하며 전체 배치를 중단하지 않는다.
type Service struct {
	news     NewsFetcher
	analyzer *Analyzer
	newsMax  int
	logger   *logger.Logger
}

// NewService creates a new sentiment service
func NewService(news NewsFetcher, analyzer *Analyzer, newsMax int, log *logger.Logger) *Service {
	return &Service{
		news:     news,
		analyzer: analyzer,
		newsMax:  newsMax,
		logger:   log,
	}
}

// ForStock fetches and analyzes news sentiment for one security.
// 실패 시 에러 대신 중립 감성을 반환한다.
func (s *Service) ForStock(ctx context.Context, code, name string) *contracts.NewsSentiment {
	query := name
	if query == "" {
		query = code
	}

	titles, err := s.news.FetchNewsTitles(ctx, query, s.newsMax)
	if err != nil {
		s.logger.WithError(err).WithField("code", code).Warn("뉴스 수집 실패, 중립 처리")
		return contracts.NeutralSentiment("news fetch failed")
	}
	if len(titles) == 0 {
		return contracts.NeutralSentiment("뉴스 없음")
	}

	result, err := s.analyzer.Analyze(ctx, titles)
	if err != nil {
		s.logger.WithError(err).WithField("code", code).Warn("감성 분석 실패, 중립 처리")
		return contracts.NeutralSentiment("sentiment analysis failed")
	}

	return result
}
