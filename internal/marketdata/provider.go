package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/external/naver"
	"github.com/wonny/stockreco/pkg/logger"
	"github.com/wonny/stockreco/pkg/redis"
)

// ohlcvCacheTTL keeps candle snapshots fresh for one trading session
const ohlcvCacheTTL = 6 * time.Hour

// Provider supplies OHLCV snapshots, cached in Redis
// ⭐ SSOT: 시세 조회는 이 프로바이더를 통해서만
type Provider struct {
	client *naver.Client
	cache  *redis.Cache
	logger *logger.Logger
}

// NewProvider creates a new market data provider
func NewProvider(client *naver.Client, cache *redis.Cache, log *logger.Logger) *Provider {
	return &Provider{
		client: client,
		cache:  cache,
		logger: log,
	}
}

// FetchOhlcv returns the daily candle history for one security.
// 같은 (종목, 기준일, 기간) 조합은 캐시에서 재사용한다.
func (p *Provider) FetchOhlcv(ctx context.Context, code string, asOf time.Time, lookbackDays int) (contracts.OhlcvSeries, error) {
	key := fmt.Sprintf("ohlcv:%s:%s:%d", code, asOf.Format("2006-01-02"), lookbackDays)

	var cached contracts.OhlcvSeries
	if found, err := p.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	series, err := p.client.FetchOhlcv(ctx, code, asOf, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch ohlcv for %s: %w", code, err)
	}

	if err := p.cache.Set(ctx, key, series, ohlcvCacheTTL); err != nil {
		p.logger.WithError(err).WithField("code", code).Warn("ohlcv cache write failed")
	}

	return series, nil
}

// FetchOhlcvBatch returns candle histories for many securities.
// 한 종목의 실패는 로그만 남기고 결과에서 제외한다.
func (p *Provider) FetchOhlcvBatch(ctx context.Context, codes []string, asOf time.Time, lookbackDays int) map[string]contracts.OhlcvSeries {
	result := make(map[string]contracts.OhlcvSeries, len(codes))

	for _, code := range codes {
		series, err := p.FetchOhlcv(ctx, code, asOf, lookbackDays)
		if err != nil {
			p.logger.WithError(err).WithField("code", code).Warn("시세 조회 실패, 종목 제외")
			continue
		}
		result[code] = series
	}

	return result
}
