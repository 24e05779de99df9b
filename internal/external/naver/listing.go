package naver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/stockreco/internal/contracts"
)

// marketCodes maps market to the sise_market_sum sosok parameter
var marketCodes = map[string]string{
	"KS": "0", // KOSPI
	"KQ": "1", // KOSDAQ
}

// FetchListings fetches (code, name) pairs from the Naver Finance
// market-cap listing pages, ordered by market cap descending
// ⭐ SSOT: 종목 리스팅 조회는 이 함수에서만
func (c *Client) FetchListings(ctx context.Context, market string, pages int) ([]contracts.Listing, error) {
	sosok, ok := marketCodes[market]
	if !ok {
		return nil, fmt.Errorf("unknown market: %s", market)
	}

	listings := make([]contracts.Listing, 0, pages*50)

	for page := 1; page <= pages; page++ {
		params := url.Values{}
		params.Set("sosok", sosok)
		params.Set("page", strconv.Itoa(page))

		html, err := c.fetchHTML(ctx, "/sise/sise_market_sum.naver", params)
		if err != nil {
			return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
		}

		pageListings, err := parseListingPage(html)
		if err != nil {
			return nil, fmt.Errorf("parse listing page %d: %w", page, err)
		}
		if len(pageListings) == 0 {
			break // 마지막 페이지 이후
		}

		listings = append(listings, pageListings...)
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(listings),
	}).Debug("Fetched listings")

	return listings, nil
}

// parseListingPage extracts stock codes and names from the market-cap table
func parseListingPage(html string) ([]contracts.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var listings []contracts.Listing
	doc.Find("table.type_2 tbody tr").Each(func(i int, row *goquery.Selection) {
		anchor := row.Find("a.tltle")
		if anchor.Length() == 0 {
			return // 구분선 행
		}

		href, _ := anchor.Attr("href")
		code := extractCodeParam(href)
		name := strings.TrimSpace(anchor.Text())

		if code == "" || name == "" {
			return
		}

		listings = append(listings, contracts.Listing{
			Code: code,
			Name: name,
		})
	})

	return listings, nil
}

// extractCodeParam pulls the code query parameter out of an item link
// (예: /item/main.naver?code=005930)
func extractCodeParam(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("code")
}
