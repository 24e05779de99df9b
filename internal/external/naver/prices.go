package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/stockreco/internal/contracts"
)

// FetchOhlcv fetches daily candles for a stock from the Naver chart API
// ⭐ SSOT: 시세 API 호출은 이 함수에서만
func (c *Client) FetchOhlcv(ctx context.Context, stockCode string, asOf time.Time, lookbackDays int) (contracts.OhlcvSeries, error) {
	from := asOf.AddDate(0, 0, -lookbackDays)
	fromStr := from.Format("20060102")
	toStr := asOf.Format("20060102")

	fullURL := fmt.Sprintf(
		"https://fchart.stock.naver.com/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		stockCode, fromStr, toStr,
	)

	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, browserHeaders())
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	series, err := parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_code": stockCode,
		"count":      series.Len(),
	}).Debug("Fetched ohlcv")

	return series, nil
}

// parseChartResponse parses the siseJson chart payload.
// 응답은 작은따옴표를 쓰는 유사 JSON 배열이다:
// [["날짜","시가","고가","저가","종가","거래량","외국인소진율"], ["20240102",...], ...]
func parseChartResponse(body string) (contracts.OhlcvSeries, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err != nil {
		return nil, fmt.Errorf("decode chart payload: %w", err)
	}

	series := make(contracts.OhlcvSeries, 0, len(rawData))
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // Skip header
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		dateStr = strings.TrimSpace(strings.Trim(dateStr, "\""))

		tradeDate, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		candle := contracts.Candle{
			Date:   tradeDate,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: toFloat(row[5]),
		}

		// 차트 API에는 거래대금이 없어 종가×거래량으로 근사한다
		candle.ValueTraded = candle.Close * candle.Volume

		series = append(series, candle)
	}

	return series, nil
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case json.Number:
		f, _ := val.Float64()
		return f
	case string:
		var f float64
		fmt.Sscanf(strings.TrimSpace(val), "%f", &f)
		return f
	default:
		return 0
	}
}
