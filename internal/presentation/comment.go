package presentation

import (
	"fmt"
	"strings"

	"github.com/wonny/stockreco/internal/contracts"
)

// FriendlyReason generates a two-clause natural-language summary from the
// momentum snapshot (수치 데이터를 바탕으로 친절한 설명 문구 생성)
func FriendlyReason(score contracts.StockScore) string {
	m5 := score.Momentum.M5
	rsi := score.Momentum.RSI

	parts := make([]string, 0, 2)

	// 1. 모멘텀(추세) 평가
	switch {
	case m5 > 0.15:
		parts = append(parts, "최근 주가가 급등하여 기세가 아주 강하며,")
	case m5 > 0.05:
		parts = append(parts, "탄탄한 상승 추세를 이어가고 있으며,")
	case m5 > 0:
		parts = append(parts, "완만한 상승 흐름을 보이는 가운데,")
	default:
		parts = append(parts, "단기적으로 조정을 받고 있으나,")
	}

	// 2. RSI(과열/침체) 평가
	switch {
	case rsi >= 80:
		parts = append(parts, fmt.Sprintf("RSI(%.0f)가 초과열권이라 '매도' 압력이 커질 수 있어 주의가 필요합니다.", rsi))
	case rsi >= 70:
		parts = append(parts, fmt.Sprintf("RSI(%.0f)가 과열권에 진입해 잠시 쉬어갈 수 있습니다.", rsi))
	case rsi <= 30:
		parts = append(parts, fmt.Sprintf("RSI(%.0f)가 침체권이라 기술적 '반등'이 기대되는 자리입니다.", rsi))
	default:
		parts = append(parts, fmt.Sprintf("과열되지 않은 건전한 수급(RSI %.0f)을 유지하고 있습니다.", rsi))
	}

	return strings.Join(parts, " ")
}

// MAComment classifies the moving-average stack and the price position
// (이동평균선 배열 상태와 주가 위치 분석)
func MAComment(price, ma5, ma20, ma60 float64) string {
	parts := make([]string, 0, 2)

	// 정배열/역배열 판단 (장기 추세)
	if ma5 > ma20 && ma20 > ma60 {
		parts = append(parts, "이동평균선이 정배열(단기>중기>장기)을 이루어 '강력한 상승 추세'를 보이고 있습니다.")
	} else if ma5 < ma20 && ma20 < ma60 {
		parts = append(parts, "이동평균선이 역배열 상태라 '하락 추세'가 지속되고 있습니다.")
	}

	// 현재 주가와 이평선 관계 (단기 탄력)
	if price > ma5 {
		parts = append(parts, "현재 주가가 5일선 위에 있어 단기 탄력이 좋습니다.")
	} else if price < ma5 {
		parts = append(parts, "주가가 5일선 아래로 내려와 단기 조정을 받고 있습니다.")
	}

	if len(parts) == 0 {
		parts = append(parts, "이동평균선이 혼조세를 보이며 뚜렷한 방향성을 탐색 중입니다.")
	}

	return strings.Join(parts, " ")
}
