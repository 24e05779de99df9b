package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/internal/stats"
	"github.com/wonny/stockreco/internal/strategy"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// atrPenaltyFloor is the ATR ratio above which volatility is penalized (3%)
const atrPenaltyFloor = 0.03

// bearTurnoverMultiplier tightens the liquidity gate in a BEAR market
const bearTurnoverMultiplier = 1.5

// Engine combines normalized signals, strategy weights and regime
// adjustments into one composite raw score
// ⭐ SSOT: 종목 채점 산식은 여기서만
type Engine struct {
	conf   config.FeatureConfig
	rsi    config.RSIThresholds
	logger *logger.Logger
}

// NewEngine creates a new scoring engine
func NewEngine(conf config.FeatureConfig, rsi config.RSIThresholds, log *logger.Logger) *Engine {
	return &Engine{
		conf:   conf,
		rsi:    rsi,
		logger: log,
	}
}

// Input carries the per-security signals for one scoring call
type Input struct {
	Code     string
	Name     string
	Features *contracts.FeatureSet
	MomZ     stats.MomentumZ
	NewsZ    float64
	VolZ     float64
	Regime   contracts.Regime
	Profile  strategy.Profile

	// HasNews marks whether a sentiment value was actually supplied;
	// 1차 패스(뉴스 제외)에서는 false
	HasNews bool
}

// Score computes the composite raw score for one security.
// 이력 부족 또는 거래대금 미달 종목은 nil을 반환한다 (오류 아님).
func (e *Engine) Score(in Input) *contracts.StockScore {
	if in.Features == nil || in.Features.Series.Len() < e.conf.MinRows() {
		return nil
	}

	// 직전 거래일 기준: 당일 미완성 데이터 사용 방지
	prev := in.Features.Prev()

	lastClose := prev.Close
	rsi := contracts.OrDefault(prev.RSI, 50.0)
	atrRatio := contracts.OrDefault(prev.ATRRatio, 0.0)

	// 거래대금 필터링: 하락장에서는 유동성 기준을 강화
	minTurnover := e.conf.MinTurnoverWon
	if in.Regime == contracts.RegimeBear {
		minTurnover *= bearTurnoverMultiplier
	}
	if prev.ValueTraded < minTurnover {
		return nil
	}

	rsiBonus := in.Profile.RSIBonus(rsi, e.rsi)
	maPenalty, warnings := in.Profile.MAPenalty(lastClose, prev)

	// 갭 보너스: 예약된 항목, 현재 항상 0
	gapBonus := 0.0

	w := in.Profile.MomWeights
	momCore := w[0]*in.MomZ.Short + w[1]*in.MomZ.Med + w[2]*in.MomZ.Long

	// ATR 비율이 3%를 넘으면 변동성 페널티 부여
	atrPenalty := math.Max(0, (atrRatio-atrPenaltyFloor)*10)
	finalVolPenalty := in.Profile.VolPenaltyWeight*in.VolZ + atrPenalty*0.5

	score := momCore -
		finalVolPenalty +
		in.Profile.NewsImpactFactor*in.NewsZ -
		maPenalty +
		gapBonus +
		rsiBonus

	reason := buildReason(momCore, finalVolPenalty, rsi, rsiBonus, maPenalty, warnings)

	result := &contracts.StockScore{
		Code:   in.Code,
		Name:   in.Name,
		Score:  round(score, 2),
		Reason: reason,
		Momentum: contracts.MomentumSnapshot{
			M5:  round(contracts.OrDefault(prev.MomShort, 0), 4),
			M20: round(contracts.OrDefault(prev.MomMed, 0), 4),
			M60: round(contracts.OrDefault(prev.MomLong, 0), 4),
			RSI: round(rsi, 2),
		},
		Price: lastClose,
	}

	if in.HasNews {
		newsScore := round(in.NewsZ, 3)
		result.NewsSentimentScore = &newsScore
	}

	return result
}

// buildReason builds the deterministic debugging/explanation string
func buildReason(momCore, volPenalty, rsi, rsiBonus, maPenalty float64, warnings []string) string {
	parts := []string{
		fmt.Sprintf("mom=%.2f", momCore),
		fmt.Sprintf("vol_p=%.2f", volPenalty),
		fmt.Sprintf("rsi=%.0f", rsi),
	}
	if rsiBonus > 0 {
		parts = append(parts, "RSI보너스")
	}
	if maPenalty > 0 {
		parts = append(parts, "MA이탈")
	}

	reason := strings.Join(parts, ", ")
	if len(warnings) > 0 {
		reason += fmt.Sprintf(" [주의: %s]", strings.Join(warnings, ", "))
	}
	return reason
}

func round(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}
