package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/features"
	"github.com/wonny/stockreco/internal/presentation"
	"github.com/wonny/stockreco/internal/scoring"
	"github.com/wonny/stockreco/internal/stats"
	"github.com/wonny/stockreco/internal/strategy"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// ErrNoScorableStocks is returned when no security survives a scoring pass.
// 부분 결과 없이 실행 전체가 실패한다.
var ErrNoScorableStocks = errors.New("no scorable securities")

// ErrEmptyUniverse is returned when the universe cannot be resolved
var ErrEmptyUniverse = errors.New("universe unavailable")

// lookbackDays is the OHLCV fetch window (60일 모멘텀 + 지표 워밍업 여유)
const lookbackDays = 120

// shortlistSize bounds the candidates promoted to the sentiment pass.
// 감성 분석이 비싼 단계이므로 모멘텀 선별로 후보를 먼저 줄인다.
const shortlistSize = 20

// volatilityWindow is the realized-volatility window (20일 수익률 표준편차)
const volatilityWindow = 20

// featureWorkers bounds the parallel feature computations
const featureWorkers = 8

// MarketData supplies OHLCV history per security
type MarketData interface {
	FetchOhlcv(ctx context.Context, code string, asOf time.Time, lookbackDays int) (contracts.OhlcvSeries, error)
}

// UniverseSource supplies the (code, name) universe for a market
type UniverseSource interface {
	Listings(ctx context.Context, market string) ([]contracts.Listing, error)
}

// SentimentSource supplies per-security news sentiment.
// 실패 시에도 중립 감성을 반환해야 하며 배치를 중단시키면 안 된다.
type SentimentSource interface {
	ForStock(ctx context.Context, code, name string) *contracts.NewsSentiment
}

// RegimeSource labels the market as BULL/BEAR/NEUTRAL
type RegimeSource interface {
	Determine(ctx context.Context, market string, asOf time.Time) contracts.Regime
}

// Options configures one recommendation run
type Options struct {
	AsOf     time.Time // zero → 오늘 (Asia/Seoul)
	TopN     int
	WithNews bool
	Strategy string

	// UniverseCodes overrides the market universe (백테스트용)
	UniverseCodes []string
}

// Workflow runs the two-pass ranking pipeline
// ⭐ SSOT: 추천 파이프라인 조율은 여기서만
type Workflow struct {
	cfg       *config.Config
	data      MarketData
	universe  UniverseSource
	sentiment SentimentSource
	regime    RegimeSource
	features  *features.Engine
	scorer    *scoring.Engine
	logger    *logger.Logger
}

// NewWorkflow creates a new recommendation workflow
func NewWorkflow(
	cfg *config.Config,
	data MarketData,
	universeSource UniverseSource,
	sentimentSource SentimentSource,
	regimeSource RegimeSource,
	log *logger.Logger,
) *Workflow {
	return &Workflow{
		cfg:       cfg,
		data:      data,
		universe:  universeSource,
		sentiment: sentimentSource,
		regime:    regimeSource,
		features:  features.NewEngine(cfg.Feature, log),
		scorer:    scoring.NewEngine(cfg.Feature, cfg.RSI, log),
		logger:    log,
	}
}

// Run executes the two-pass recommendation pipeline:
//  1. 모멘텀만으로 전 종목을 선별해 상위 20개 후보를 뽑고
//  2. 후보에 한해 감성/변동성을 반영해 최종 점수와 별점을 산출한다.
func (w *Workflow) Run(ctx context.Context, opts Options) (*contracts.RecoResult, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now().In(seoulLocation())
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}

	profile := strategy.ForName(opts.Strategy, w.logger)

	// 1. 분석 대상 종목 선정 및 데이터 수집
	listings, err := w.resolveUniverse(ctx, opts)
	if err != nil {
		return nil, err
	}

	nameByCode := make(map[string]string, len(listings))
	codes := make([]string, 0, len(listings))
	for _, l := range listings {
		codes = append(codes, l.Code)
		nameByCode[l.Code] = l.Name
	}

	featureSets := w.computeFeatures(ctx, codes, asOf)

	// 2. 시장 상황 분석
	marketRegime := w.regime.Determine(ctx, w.cfg.Market, asOf)

	// 3. 유니버스 전체 모멘텀 통계 산출
	universeStats := w.momentumStats(codes, featureSets)

	// 4. 1차 스코어링: 뉴스/변동성 미반영 (news_z=0, vol_z=0)
	preScored := make([]contracts.StockScore, 0, len(codes))
	for _, code := range codes {
		fs, ok := featureSets[code]
		if !ok {
			continue
		}

		prev := fs.Prev()
		score := w.scorer.Score(scoring.Input{
			Code:     code,
			Name:     stockName(nameByCode, code),
			Features: fs,
			MomZ:     universeStats.Normalize(prev.MomShort, prev.MomMed, prev.MomLong),
			Regime:   marketRegime,
			Profile:  profile,
		})
		if score != nil {
			preScored = append(preScored, *score)
		}
	}

	if len(preScored) == 0 {
		return nil, ErrNoScorableStocks
	}

	// 동점 종목은 입력 순서를 유지한다 (stable sort)
	sort.SliceStable(preScored, func(i, j int) bool {
		return preScored[i].Score > preScored[j].Score
	})

	shortlist := preScored
	if len(shortlist) > shortlistSize {
		shortlist = shortlist[:shortlistSize]
	}
	shortCodes := make([]string, len(shortlist))
	for i, s := range shortlist {
		shortCodes[i] = s.Code
	}

	w.logger.WithFields(map[string]interface{}{
		"universe":  len(codes),
		"scorable":  len(preScored),
		"shortlist": len(shortCodes),
		"regime":    string(marketRegime),
		"strategy":  profile.Name,
	}).Info("1차 스코어링 완료")

	// 5. 뉴스 감성 분석 (후보 종목만)
	newsMap := w.collectSentiment(ctx, shortCodes, nameByCode, opts.WithNews)

	// 6. 2차 스코어링: 감성과 변동성을 후보군 내에서 정규화해 반영
	finalScored := w.finalScoring(shortCodes, featureSets, newsMap, universeStats,
		nameByCode, marketRegime, profile, opts.WithNews)

	if len(finalScored) == 0 {
		return nil, ErrNoScorableStocks
	}

	// 7. 표시 점수/별점/비중 산출
	candidates := w.present(finalScored, newsMap, marketRegime, opts)

	return &contracts.RecoResult{
		AsOf:       asOf.Format("2006-01-02"),
		Regime:     marketRegime,
		Strategy:   profile.Name,
		Candidates: candidates,
	}, nil
}

// resolveUniverse returns the listings to score
func (w *Workflow) resolveUniverse(ctx context.Context, opts Options) ([]contracts.Listing, error) {
	if len(opts.UniverseCodes) > 0 {
		listings := make([]contracts.Listing, len(opts.UniverseCodes))
		for i, code := range opts.UniverseCodes {
			listings[i] = contracts.Listing{Code: code, Name: code}
		}
		return listings, nil
	}

	listings, err := w.universe.Listings(ctx, w.cfg.Market)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyUniverse, err)
	}
	if len(listings) == 0 {
		return nil, ErrEmptyUniverse
	}
	return listings, nil
}

// computeFeatures fetches history and derives indicators for every code.
// 종목별 계산은 독립적이므로 제한된 병렬로 수행하고, 이력이 부족한
// 종목은 건너뛴다.
func (w *Workflow) computeFeatures(ctx context.Context, codes []string, asOf time.Time) map[string]*contracts.FeatureSet {
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, featureWorkers)

	result := make(map[string]*contracts.FeatureSet, len(codes))

	for _, code := range codes {
		wg.Add(1)
		sem <- struct{}{}

		go func(code string) {
			defer wg.Done()
			defer func() { <-sem }()

			series, err := w.data.FetchOhlcv(ctx, code, asOf, lookbackDays)
			if err != nil {
				w.logger.WithError(err).WithField("code", code).Warn("시세 조회 실패, 종목 제외")
				return
			}
			if !w.features.HasSufficientHistory(series) {
				return
			}

			fs := w.features.Compute(code, series)

			mu.Lock()
			result[code] = fs
			mu.Unlock()
		}(code)
	}

	wg.Wait()
	return result
}

// momentumStats computes cross-sectional momentum statistics over every
// scorable security (전일 기준 값)
func (w *Workflow) momentumStats(codes []string, featureSets map[string]*contracts.FeatureSet) stats.UniverseStats {
	shorts := make([]float64, 0, len(featureSets))
	meds := make([]float64, 0, len(featureSets))
	longs := make([]float64, 0, len(featureSets))

	for _, code := range codes {
		fs, ok := featureSets[code]
		if !ok {
			continue
		}
		prev := fs.Prev()
		shorts = append(shorts, contracts.OrDefault(prev.MomShort, 0))
		meds = append(meds, contracts.OrDefault(prev.MomMed, 0))
		longs = append(longs, contracts.OrDefault(prev.MomLong, 0))
	}

	return stats.UniverseStats{
		Short: stats.Compute(shorts),
		Med:   stats.Compute(meds),
		Long:  stats.Compute(longs),
	}
}

// collectSentiment resolves news sentiment for the shortlist
func (w *Workflow) collectSentiment(ctx context.Context, codes []string, nameByCode map[string]string, withNews bool) map[string]*contracts.NewsSentiment {
	if !withNews {
		return nil
	}

	result := make(map[string]*contracts.NewsSentiment, len(codes))
	for _, code := range codes {
		result[code] = w.sentiment.ForStock(ctx, code, stockName(nameByCode, code))
	}
	return result
}

// finalScoring re-scores the shortlist with sentiment and volatility
// Z-scores computed over the shortlist only (통계는 패스 단위)
func (w *Workflow) finalScoring(
	codes []string,
	featureSets map[string]*contracts.FeatureSet,
	newsMap map[string]*contracts.NewsSentiment,
	universeStats stats.UniverseStats,
	nameByCode map[string]string,
	marketRegime contracts.Regime,
	profile strategy.Profile,
	withNews bool,
) []contracts.StockScore {
	newsScores := make([]float64, len(codes))
	volScores := make([]float64, len(codes))
	for i, code := range codes {
		if s, ok := newsMap[code]; ok && s != nil {
			newsScores[i] = s.Score
		}
		volScores[i] = realizedVolatility(featureSets[code])
	}

	newsStats := stats.Compute(newsScores)
	volStats := stats.Compute(volScores)

	scored := make([]contracts.StockScore, 0, len(codes))
	for i, code := range codes {
		fs := featureSets[code]
		prev := fs.Prev()

		score := w.scorer.Score(scoring.Input{
			Code:     code,
			Name:     stockName(nameByCode, code),
			Features: fs,
			MomZ:     universeStats.Normalize(prev.MomShort, prev.MomMed, prev.MomLong),
			NewsZ:    newsStats.Z(newsScores[i]),
			VolZ:     volStats.Z(volScores[i]),
			Regime:   marketRegime,
			Profile:  profile,
			HasNews:  withNews,
		})
		if score != nil {
			scored = append(scored, *score)
		}
	}

	return scored
}

// present scales raw scores, assigns stars, keeps the top N with equal
// weights (비중 합은 1.0)
func (w *Workflow) present(
	scored []contracts.StockScore,
	newsMap map[string]*contracts.NewsSentiment,
	marketRegime contracts.Regime,
	opts Options,
) []contracts.RecoItem {
	minRaw, maxRaw := scored[0].Score, scored[0].Score
	for _, s := range scored[1:] {
		if s.Score < minRaw {
			minRaw = s.Score
		}
		if s.Score > maxRaw {
			maxRaw = s.Score
		}
	}

	items := make([]contracts.RecoItem, 0, len(scored))
	for _, s := range scored {
		item := contracts.RecoItem{
			Code:     s.Code,
			Name:     s.Name,
			Score:    presentation.ScaleTo100(s.Score, minRaw, maxRaw, marketRegime),
			Price:    s.Price,
			Reason:   presentation.FriendlyReason(s),
			Momentum: s.Momentum,
		}
		if opts.WithNews {
			item.NewsSentiment = newsMap[s.Code]
		}
		item.Stars = presentation.StockStars(item, marketRegime, w.cfg.RSI)
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if len(items) > opts.TopN {
		items = items[:opts.TopN]
	}
	for i := range items {
		items[i].Weight = 1.0 / float64(len(items))
	}

	return items
}

// realizedVolatility is the 20-day sample std of daily returns at the
// second-to-last row
func realizedVolatility(fs *contracts.FeatureSet) float64 {
	v := stats.StdOver(fs.Ret1, volatilityWindow, fs.Series.Len()-2)
	return contracts.OrDefault(v, 0)
}

func stockName(nameByCode map[string]string, code string) string {
	if name, ok := nameByCode[code]; ok && name != "" {
		return name
	}
	return code
}

func seoulLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}
