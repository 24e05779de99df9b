package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/external/naver"
	"github.com/wonny/stockreco/pkg/logger"
	"github.com/wonny/stockreco/pkg/redis"
)

// listingCacheTTL: 상장 목록은 하루 단위로 갱신하면 충분하다
const listingCacheTTL = 24 * time.Hour

// defaultPages covers roughly the top 150 stocks by market cap
const defaultPages = 3

// Provider supplies the universe of scoreable securities for a market
// ⭐ SSOT: 유니버스 구성은 여기서만
type Provider struct {
	client *naver.Client
	cache  *redis.Cache
	pages  int
	logger *logger.Logger
}

// NewProvider creates a new universe provider
func NewProvider(client *naver.Client, cache *redis.Cache, log *logger.Logger) *Provider {
	return &Provider{
		client: client,
		cache:  cache,
		pages:  defaultPages,
		logger: log,
	}
}

// Listings returns (code, name) pairs for the market, market-cap ordered
func (p *Provider) Listings(ctx context.Context, market string) ([]contracts.Listing, error) {
	key := fmt.Sprintf("universe:%s", market)

	var cached []contracts.Listing
	if found, err := p.cache.Get(ctx, key, &cached); err == nil && found && len(cached) > 0 {
		return cached, nil
	}

	listings, err := p.client.FetchListings(ctx, market, p.pages)
	if err != nil {
		return nil, fmt.Errorf("fetch universe for %s: %w", market, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("empty universe for market %s", market)
	}

	if err := p.cache.Set(ctx, key, listings, listingCacheTTL); err != nil {
		p.logger.WithError(err).Warn("universe cache write failed")
	}

	p.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(listings),
	}).Info("Universe loaded")

	return listings, nil
}
