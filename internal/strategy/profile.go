package strategy

import (
	"math"

	"github.com/wonny/stockreco/internal/contracts"
	"github.com/wonny/stockreco/pkg/config"
	"github.com/wonny/stockreco/pkg/logger"
)

// Strategy names (닫힌 집합)
const (
	Default   = "default"
	DayTrader = "day_trader"
	LongTerm  = "long_term"
)

// Profile is one named weighting/penalty profile.
// 전략은 고정된 닫힌 집합이며 열린 상속 구조를 쓰지 않는다.
type Profile struct {
	Name             string
	MomWeights       [3]float64 // (short, med, long)
	VolPenaltyWeight float64
	NewsImpactFactor float64
	Description      string

	// 두 가지 전략별 행동: RSI 보너스와 이동평균선 이탈 페널티
	rsiBonus  func(rsi float64, th config.RSIThresholds) float64
	maPenalty func(lastClose float64, prev contracts.FeatureRow) (float64, []string)
}

// RSIBonus returns the strategy's bonus/penalty for the given RSI value
func (p Profile) RSIBonus(rsi float64, th config.RSIThresholds) float64 {
	return p.rsiBonus(rsi, th)
}

// MAPenalty returns the moving-average breach penalty and warning tags
func (p Profile) MAPenalty(lastClose float64, prev contracts.FeatureRow) (float64, []string) {
	return p.maPenalty(lastClose, prev)
}

var profiles = map[string]Profile{
	DayTrader: {
		Name:             DayTrader,
		MomWeights:       [3]float64{0.5, 0.2, 0.0},
		VolPenaltyWeight: 0.2,
		NewsImpactFactor: 0.4,
		Description:      "단기 트레이더 관점: 5일선 이탈, 거래량 급등 등 단기 신호 위주 분석",
		rsiBonus: func(rsi float64, th config.RSIThresholds) float64 {
			if rsi < th.Oversold {
				return 2.0 // 과매도 구간: 강력한 매수 신호
			}
			if rsi > th.Overbought {
				return -1.0 // 과매수 구간: 주의
			}
			return 0.0
		},
		maPenalty: func(lastClose float64, prev contracts.FeatureRow) (float64, []string) {
			if lastClose < contracts.OrDefault(prev.MA5, math.Inf(1)) {
				return 0.5, []string{"5일선 이탈"}
			}
			return 0.0, nil
		},
	},

	LongTerm: {
		Name:             LongTerm,
		MomWeights:       [3]float64{0.1, 0.3, 0.6},
		VolPenaltyWeight: 1.5,
		NewsImpactFactor: 0.1,
		Description:      "장기 투자자 관점: 장기 모멘텀(m60)과 추세 안정성 위주 분석",
		rsiBonus: func(rsi float64, th config.RSIThresholds) float64 {
			// 극단적인 지표는 장기 투자에 불안 요소
			if rsi < th.Oversold || rsi > th.Overbought {
				return -0.5
			}
			return 0.0
		},
		maPenalty: func(lastClose float64, prev contracts.FeatureRow) (float64, []string) {
			if lastClose < contracts.OrDefault(prev.MA60, math.Inf(1)) {
				return 1.0, []string{"장기 추세 훼손"}
			}
			return 0.0, nil
		},
	},

	Default: {
		Name:             Default,
		MomWeights:       [3]float64{0.4, 0.3, 0.3},
		VolPenaltyWeight: 0.5,
		NewsImpactFactor: 0.2,
		Description:      "일반 투자자 관점: 모멘텀과 리스크를 균형 있게 분석",
		rsiBonus: func(rsi float64, th config.RSIThresholds) float64 {
			if rsi < th.Oversold {
				return 0.5 // 저점 매수 기회
			}
			if rsi > th.StrongOverbought {
				return -0.5 // 과열
			}
			return 0.0
		},
		maPenalty: func(lastClose float64, prev contracts.FeatureRow) (float64, []string) {
			return 0.0, nil
		},
	},
}

// ForName returns the profile for the given strategy name.
// 알 수 없는 이름은 경고 로그 후 default로 대체한다.
func ForName(name string, log *logger.Logger) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}

	log.WithFields(map[string]interface{}{
		"strategy": name,
	}).Warn("Unknown strategy name, falling back to default")

	return profiles[Default]
}

// Names returns the known strategy names
func Names() []string {
	return []string{Default, DayTrader, LongTerm}
}
