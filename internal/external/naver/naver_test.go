package naver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartResponse(t *testing.T) {
	// siseJson은 작은따옴표를 쓰는 유사 JSON을 반환한다
	body := `[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율'],
["20260105", 71000, 72500, 70800, 72000, 1500000, 52.1],
["20260106", 72000, 73000, 71500, 72800, 1800000, 52.3]]`

	series, err := parseChartResponse(body)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	first := series[0]
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 71000.0, first.Open)
	assert.Equal(t, 72500.0, first.High)
	assert.Equal(t, 70800.0, first.Low)
	assert.Equal(t, 72000.0, first.Close)
	assert.Equal(t, 1500000.0, first.Volume)

	// 거래대금은 종가×거래량으로 근사
	assert.Equal(t, 72000.0*1500000.0, first.ValueTraded)
}

func TestParseChartResponse_SkipsMalformedRows(t *testing.T) {
	body := `[['날짜', '시가', '고가', '저가', '종가', '거래량'],
["20260105", 71000, 72500, 70800, 72000, 1500000],
["not-a-date", 1, 2, 3, 4, 5],
["20260107", 72800]]`

	series, err := parseChartResponse(body)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}

func TestParseChartResponse_InvalidPayload(t *testing.T) {
	_, err := parseChartResponse("<html>차단되었습니다</html>")
	assert.Error(t, err)
}

func TestParseListingPage(t *testing.T) {
	html := `
	<table class="type_2">
	  <tbody>
	    <tr><td>1</td><td><a class="tltle" href="/item/main.naver?code=005930">삼성전자</a></td></tr>
	    <tr class="division_line"><td colspan="2"></td></tr>
	    <tr><td>2</td><td><a class="tltle" href="/item/main.naver?code=000660">SK하이닉스</a></td></tr>
	  </tbody>
	</table>`

	listings, err := parseListingPage(html)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "005930", listings[0].Code)
	assert.Equal(t, "삼성전자", listings[0].Name)
	assert.Equal(t, "000660", listings[1].Code)
	assert.Equal(t, "SK하이닉스", listings[1].Name)
}

func TestParseListingPage_EmptyTable(t *testing.T) {
	listings, err := parseListingPage("<table class=\"type_2\"><tbody></tbody></table>")
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestExtractCodeParam(t *testing.T) {
	assert.Equal(t, "005930", extractCodeParam("/item/main.naver?code=005930"))
	assert.Equal(t, "", extractCodeParam("/item/main.naver"))
	assert.Equal(t, "", extractCodeParam("://bad"))
}

func TestResolvePublisher(t *testing.T) {
	// 네이버 뉴스 링크의 oid 우선
	got := resolvePublisher(
		"https://news.naver.com/main/read.naver?oid=001&aid=0012345678",
		"https://www.yna.co.kr/view/AKR123",
	)
	assert.Equal(t, "연합뉴스", got)

	// 모르는 oid면 원문 도메인으로 대체
	got = resolvePublisher(
		"https://news.naver.com/main/read.naver?oid=999",
		"https://www.example.com/article/1",
	)
	assert.Equal(t, "example", got)

	// 둘 다 없으면 출처 미상
	assert.Equal(t, "출처 미상", resolvePublisher("", ""))
}

func TestHTMLTagStripping(t *testing.T) {
	raw := "<b>삼성전자</b> 실적 &quot;서프라이즈&quot;"
	got := htmlTagPattern.ReplaceAllString(raw, "")
	assert.Equal(t, "삼성전자 실적 서프라이즈", got)
}
