package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Market: "KS",
		Feature: config.FeatureConfig{
			MomShort:       5,
			MomMed:         20,
			MomLong:        60,
			MinTurnoverWon: 5e9,
		},
		Sentiment: config.SentimentConfig{
			NewsMax:           3,
			ConfidenceNeutral: 0.55,
			ConfidenceStrong:  0.99,
			DecayRate:         0.2,
		},
		RSI: config.RSIThresholds{
			Oversold:          30,
			Overbought:        70,
			StrongOverbought:  80,
			ExtremeOverbought: 90,
		},
	}
}

// fakeMarket serves canned per-code series
type fakeMarket struct {
	series map[string]contracts.OhlcvSeries
}

func (f *fakeMarket) FetchOhlcv(ctx context.Context, code string, asOf time.Time, lookbackDays int) (contracts.OhlcvSeries, error) {
	s, ok := f.series[code]
	if !ok {
		return nil, errors.New("no data for " + code)
	}
	return s, nil
}

type fakeUniverse struct {
	listings []contracts.Listing
	err      error
	called   bool
}

func (f *fakeUniverse) Listings(ctx context.Context, market string) ([]contracts.Listing, error) {
	f.called = true
	return f.listings, f.err
}

// fakeSentiment serves canned sentiment, neutral by default
type fakeSentiment struct {
	byCode map[string]*contracts.NewsSentiment
	calls  []string
}

func (f *fakeSentiment) ForStock(ctx context.Context, code, name string) *contracts.NewsSentiment {
	f.calls = append(f.calls, code)
	if s, ok := f.byCode[code]; ok {
		return s
	}
	return contracts.NeutralSentiment("뉴스 없음")
}

type fakeRegime struct {
	regime contracts.Regime
}

func (f *fakeRegime) Determine(ctx context.Context, market string, asOf time.Time) contracts.Regime {
	return f.regime
}

// dailySeries generates n days with a constant daily return.
// 거래대금은 유동성 기준을 넉넉히 넘긴다.
func dailySeries(n int, dailyReturn float64) contracts.OhlcvSeries {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	series := make(contracts.OhlcvSeries, n)
	price := 10_000.0
	for i := range series {
		series[i] = contracts.Candle{
			Date:        start.AddDate(0, 0, i),
			Open:        price,
			High:        price * 1.01,
			Low:         price * 0.99,
			Close:       price,
			Volume:      2_000_000,
			ValueTraded: price * 2_000_000,
		}
		price *= 1 + dailyReturn
	}
	return series
}

func testListings() []contracts.Listing {
	return []contracts.Listing{
		{Code: "000001", Name: "강한상승"},
		{Code: "000002", Name: "상승"},
		{Code: "000003", Name: "완만상승"},
		{Code: "000004", Name: "보합"},
		{Code: "000005", Name: "하락"},
	}
}

func testMarket() *fakeMarket {
	return &fakeMarket{series: map[string]contracts.OhlcvSeries{
		"000001": dailySeries(70, 0.015),
		"000002": dailySeries(70, 0.010),
		"000003": dailySeries(70, 0.005),
		"000004": dailySeries(70, 0.001),
		"000005": dailySeries(70, -0.010),
	}}
}

func newTestWorkflow(market *fakeMarket, universe *fakeUniverse, sent *fakeSentiment, reg *fakeRegime) *Workflow {
	return NewWorkflow(testConfig(), market, universe, sent, reg, logger.Nop())
}

func TestRun_RanksByMomentum(t *testing.T) {
	universe := &fakeUniverse{listings: testListings()}
	w := newTestWorkflow(testMarket(), universe, &fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{TopN: 3, WithNews: false})
	require.NoError(t, err)

	assert.Equal(t, contracts.RegimeNeutral, result.Regime)
	assert.Equal(t, "default", result.Strategy)
	require.Len(t, result.Candidates, 3)

	// 모멘텀이 가장 강한 종목이 1위
	assert.Equal(t, "000001", result.Candidates[0].Code)
	assert.Equal(t, "강한상승", result.Candidates[0].Name)

	// 표시 점수는 0~100 내림차순
	for i, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.Score, 0)
		assert.LessOrEqual(t, c.Score, 100)
		assert.GreaterOrEqual(t, c.Stars, 1)
		assert.LessOrEqual(t, c.Stars, 5)
		if i > 0 {
			assert.LessOrEqual(t, c.Score, result.Candidates[i-1].Score)
		}
	}

	// 동일 비중, 합계 1.0
	var weightSum float64
	for _, c := range result.Candidates {
		assert.InDelta(t, 1.0/3.0, c.Weight, 1e-9)
		weightSum += c.Weight
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9)

	// 뉴스 제외 실행에서는 감성이 붙지 않는다
	for _, c := range result.Candidates {
		assert.Nil(t, c.NewsSentiment)
	}
}

func TestRun_WithNewsAttachesSentiment(t *testing.T) {
	sent := &fakeSentiment{byCode: map[string]*contracts.NewsSentiment{
		"000003": {Enabled: true, Score: 2.5, Summary: "최근 뉴스 3건 분석 완료"},
	}}
	w := newTestWorkflow(testMarket(), &fakeUniverse{listings: testListings()}, sent, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{TopN: 5, WithNews: true})
	require.NoError(t, err)

	// 감성은 후보군에 대해서만 조회된다
	assert.NotEmpty(t, sent.calls)
	assert.LessOrEqual(t, len(sent.calls), shortlistSize)

	found := false
	for _, c := range result.Candidates {
		require.NotNil(t, c.NewsSentiment)
		if c.Code == "000003" {
			found = true
			assert.True(t, c.NewsSentiment.Enabled)
			assert.InDelta(t, 2.5, c.NewsSentiment.Score, 1e-9)
		}
	}
	assert.True(t, found, "감성이 부여된 종목이 최종 후보에 있어야 함")
}

func TestRun_PositiveNewsImprovesRank(t *testing.T) {
	baseline, err := newTestWorkflow(testMarket(), &fakeUniverse{listings: testListings()},
		&fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral}).
		Run(context.Background(), Options{TopN: 5, WithNews: false})
	require.NoError(t, err)

	sent := &fakeSentiment{byCode: map[string]*contracts.NewsSentiment{
		"000004": {Enabled: true, Score: 2.7},
	}}
	boosted, err := newTestWorkflow(testMarket(), &fakeUniverse{listings: testListings()},
		sent, &fakeRegime{regime: contracts.RegimeNeutral}).
		Run(context.Background(), Options{TopN: 5, WithNews: true})
	require.NoError(t, err)

	rank := func(result *contracts.RecoResult, code string) int {
		for i, c := range result.Candidates {
			if c.Code == code {
				return i
			}
		}
		return -1
	}

	// 유일하게 호재가 있는 종목은 순위가 오르거나 최소한 유지된다
	assert.LessOrEqual(t, rank(boosted, "000004"), rank(baseline, "000004"))
}

func TestRun_BearRegimeCapsDisplayScore(t *testing.T) {
	w := newTestWorkflow(testMarket(), &fakeUniverse{listings: testListings()},
		&fakeSentiment{}, &fakeRegime{regime: contracts.RegimeBear})

	result, err := w.Run(context.Background(), Options{TopN: 5, WithNews: false})
	require.NoError(t, err)
	require.NotEmpty(t, result.Candidates)

	for _, c := range result.Candidates {
		assert.LessOrEqual(t, c.Score, 80, "하락장 상한 80점")
	}
}

func TestRun_SkipsInsufficientHistory(t *testing.T) {
	market := testMarket()
	market.series["000002"] = dailySeries(30, 0.01) // 이력 부족

	w := newTestWorkflow(market, &fakeUniverse{listings: testListings()},
		&fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{TopN: 5, WithNews: false})
	require.NoError(t, err)

	for _, c := range result.Candidates {
		assert.NotEqual(t, "000002", c.Code)
	}
	assert.Len(t, result.Candidates, 4)
}

func TestRun_NoScorableStocks(t *testing.T) {
	// 전 종목 이력 부족
	market := &fakeMarket{series: map[string]contracts.OhlcvSeries{
		"000001": dailySeries(20, 0.01),
		"000002": dailySeries(20, 0.01),
	}}
	universe := &fakeUniverse{listings: testListings()[:2]}

	w := newTestWorkflow(market, universe, &fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	_, err := w.Run(context.Background(), Options{TopN: 5})
	assert.ErrorIs(t, err, ErrNoScorableStocks)
}

func TestRun_UniverseFailure(t *testing.T) {
	w := newTestWorkflow(testMarket(), &fakeUniverse{err: errors.New("scrape blocked")},
		&fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	_, err := w.Run(context.Background(), Options{TopN: 5})
	assert.ErrorIs(t, err, ErrEmptyUniverse)
}

func TestRun_UniverseCodesOverride(t *testing.T) {
	universe := &fakeUniverse{listings: testListings()}
	w := newTestWorkflow(testMarket(), universe, &fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{
		TopN:          5,
		UniverseCodes: []string{"000001", "000003"},
	})
	require.NoError(t, err)

	// 고정 유니버스가 주어지면 시장 유니버스를 조회하지 않는다
	assert.False(t, universe.called)
	assert.Len(t, result.Candidates, 2)
}

func TestRun_StableTieOrder(t *testing.T) {
	// 완전히 동일한 두 종목: 입력 순서가 유지되어야 한다
	market := &fakeMarket{series: map[string]contracts.OhlcvSeries{
		"000001": dailySeries(70, 0.01),
		"000002": dailySeries(70, 0.01),
	}}
	universe := &fakeUniverse{listings: []contracts.Listing{
		{Code: "000001", Name: "첫째"},
		{Code: "000002", Name: "둘째"},
	}}

	w := newTestWorkflow(market, universe, &fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{TopN: 2, WithNews: false})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)

	assert.Equal(t, "000001", result.Candidates[0].Code)
	assert.Equal(t, "000002", result.Candidates[1].Code)
}

func TestRun_DefaultsTopNAndAsOf(t *testing.T) {
	w := newTestWorkflow(testMarket(), &fakeUniverse{listings: testListings()},
		&fakeSentiment{}, &fakeRegime{regime: contracts.RegimeNeutral})

	result, err := w.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Candidates), 5)
	assert.NotEmpty(t, result.AsOf)

	_, parseErr := time.Parse("2006-01-02", result.AsOf)
	assert.NoError(t, parseErr)
}
