package commands

import (
	"context"
	"fmt"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/external/finbert"
	"github.com/wonny/stockreco/internal/external/naver"
	"github.com/wonny/stockreco/internal/history"
	"github.com/wonny/stockreco/internal/marketdata"
	"github.com/wonny/stockreco/internal/recommend"
	"github.com/wonny/stockreco/internal/regime"
	"github.com/wonny/stockreco/internal/sentiment"
	"github.com/wonny/stockreco/internal/universe"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/database"
	"github.com/wonny/stockreco/pkg/httputil"
	"github.com/wonny/stockreco/pkg/logger"
	"github.com/wonny/stockreco/pkg/redis"
)

// cachePrefix namespaces Redis keys for this service
const cachePrefix = "stockreco"

// app bundles the shared dependency graph for all commands
// ⭐ SSOT: 의존성 조립은 이 파일에서만
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	workflow *recommend.Workflow
}

// newApp loads config and wires the recommendation workflow.
// 데이터베이스는 필요로 하는 명령에서만 별도로 연결한다.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		// 캐시는 선택 사항: 연결 실패 시 비활성 상태로 계속
		log.WithError(err).Warn("Redis 연결 실패, 캐시 없이 실행")
		noCache := *cfg
		noCache.Redis.Enabled = false
		redisClient, _ = redis.New(&noCache)
	}
	cache := redis.NewCache(redisClient, cachePrefix)

	httpClient := httputil.New(log)
	naverClient := naver.NewClient(httpClient, cfg.Naver, log)

	dataProvider := marketdata.NewProvider(naverClient, cache, log)
	universeProvider := universe.NewProvider(naverClient, cache, log)
	regimeClassifier := regime.NewClassifier(dataProvider, log)

	var classifier sentiment.Classifier
	if cfg.Sentiment.ModelURL != "" {
		classifier = finbert.NewClient(cfg.Sentiment.ModelURL, log)
	} else {
		log.Warn("SENTIMENT_MODEL_URL 미설정, 뉴스 감성은 중립 처리")
	}
	analyzer := sentiment.NewAnalyzer(cfg.Sentiment, classifier, log)
	sentimentService := sentiment.NewService(naverClient, analyzer, cfg.Sentiment.NewsMax, log)

	workflow := recommend.NewWorkflow(cfg, dataProvider, universeProvider, sentimentService, regimeClassifier, log)

	return &app{
		cfg:      cfg,
		log:      log,
		redis:    redisClient,
		workflow: workflow,
	}, nil
}

// Close releases shared resources
func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// saveResult persists one run to the recommendation history
func saveResult(ctx context.Context, a *app, result *contracts.RecoResult) error {
	if a.cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := history.NewRepository(db.Pool).SaveRun(ctx, a.cfg.Market, result); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}
