package naver

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// newsOIDs maps Naver news publisher codes to names.
// oid는 네이버 뉴스 링크 URL의 쿼리 파라미터로 언론사를 식별한다.
var newsOIDs = map[string]string{
	"001": "연합뉴스", "003": "뉴시스", "005": "국민일보",
	"008": "머니투데이", "011": "서울경제", "014": "파이낸셜뉴스",
	"015": "한국경제", "016": "헤럴드경제", "018": "이데일리",
	"020": "동아일보", "023": "조선일보", "025": "중앙일보",
	"028": "한겨레", "030": "전자신문", "032": "경향신문",
	"055": "SBS", "056": "KBS", "081": "서울신문",
	"214": "MBC", "277": "아시아경제", "374": "SBS Biz",
	"421": "뉴스1", "422": "YTN",
}

var htmlTagPattern = regexp.MustCompile(`<[/]?b>|&[a-z]+;`)
var hostTrimPattern = regexp.MustCompile(`^(www|m)\.|\.(com|co\.kr|kr|net|org)$`)

// newsSearchResponse is the Naver open API news search XML payload
type newsSearchResponse struct {
	Items []newsItem `xml:"channel>item"`
}

type newsItem struct {
	Title        string `xml:"title"`
	Link         string `xml:"link"`
	OriginalLink string `xml:"originallink"`
}

// FetchNewsTitles fetches recent news headlines for a query, most recent
// relevance first, formatted as "[언론사] 제목"
// ⭐ SSOT: 뉴스 검색 API 호출은 이 함수에서만
func (c *Client) FetchNewsTitles(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	if c.openAPI.ClientID == "" || c.openAPI.ClientSecret == "" {
		return nil, fmt.Errorf("naver open API credentials not configured")
	}

	// 종목명만으로 검색하면 무관한 뉴스가 섞이므로 금융 키워드를 덧붙인다
	searchQuery := url.QueryEscape(query + " 증권 경제")
	fullURL := fmt.Sprintf(
		"https://openapi.naver.com/v1/search/news.xml?query=%s&display=%d&start=1&sort=sim",
		searchQuery, limit,
	)

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"X-Naver-Client-Id":     c.openAPI.ClientID,
		"X-Naver-Client-Secret": c.openAPI.ClientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("news search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	var parsed newsSearchResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	titles := make([]string, 0, limit)
	for _, item := range parsed.Items {
		title := strings.TrimSpace(htmlTagPattern.ReplaceAllString(item.Title, ""))
		if title == "" {
			continue
		}

		publisher := resolvePublisher(item.Link, item.OriginalLink)
		titles = append(titles, fmt.Sprintf("[%s] %s", publisher, title))

		if len(titles) >= limit {
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"query": query,
		"count": len(titles),
	}).Debug("Fetched news titles")

	return titles, nil
}

// resolvePublisher identifies the news publisher.
// 네이버 뉴스 링크의 oid를 우선 사용하고, 실패하면 원문 링크 도메인을 쓴다.
func resolvePublisher(link, originalLink string) string {
	if parsed, err := url.Parse(link); err == nil && parsed.Hostname() != "" {
		if strings.Contains(parsed.Hostname(), "news.naver.com") {
			oid := parsed.Query().Get("oid")
			if name, ok := newsOIDs[oid]; ok {
				return name
			}
		}
	}

	if parsed, err := url.Parse(originalLink); err == nil && parsed.Hostname() != "" {
		host := hostTrimPattern.ReplaceAllString(parsed.Hostname(), "")
		if host = strings.TrimSpace(host); host != "" {
			return host
		}
	}

	return "출처 미상"
}
