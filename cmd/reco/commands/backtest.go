package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockreco/internal/recommend"
	"github.com/wonny/stockreco/internal/strategy"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "과거 날짜 기준 추천 시뮬레이션",
	Long: `지정된 기간의 각 시점에서 추천 파이프라인을 재실행합니다.

뉴스 감성은 과거 시점 재현이 불가능하므로 항상 제외됩니다.

Flags:
  --from      시작 날짜 (YYYY-MM-DD, 필수)
  --to        종료 날짜 (YYYY-MM-DD, 기본: 오늘)
  --interval  실행 간격 (일, 기본: 7)
  --strategy  전략 이름
  --codes     고정 유니버스 (쉼표 구분 종목코드, 생략 시 시장 전체)

Example:
  go run ./cmd/reco backtest --from 2026-01-02 --to 2026-06-30
  go run ./cmd/reco backtest --from 2026-01-02 --strategy long_term --codes 005930,000660`,
	RunE: runBacktest,
}

var (
	backtestFrom     string
	backtestTo       string
	backtestInterval int
	backtestStrategy string
	backtestCodes    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "시작 날짜 (YYYY-MM-DD, 필수)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "종료 날짜 (YYYY-MM-DD, 기본: 오늘)")
	backtestCmd.Flags().IntVar(&backtestInterval, "interval", 7, "실행 간격 (일)")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", strategy.Default, "전략 이름")
	backtestCmd.Flags().StringVar(&backtestCodes, "codes", "", "고정 유니버스 (쉼표 구분)")

	backtestCmd.MarkFlagRequired("from")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== stockreco Backtest ===")

	from, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}

	to := time.Now()
	if backtestTo != "" {
		to, err = time.Parse("2006-01-02", backtestTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !from.Before(to) {
		return fmt.Errorf("--from must be before --to")
	}
	if backtestInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	var universeCodes []string
	if backtestCodes != "" {
		for _, code := range strings.Split(backtestCodes, ",") {
			if code = strings.TrimSpace(code); code != "" {
				universeCodes = append(universeCodes, code)
			}
		}
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	runs, skipped := 0, 0

	for date := from; !date.After(to); date = date.AddDate(0, 0, backtestInterval) {
		// 주말은 직후 월요일로 이동
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		if date.After(to) {
			break
		}

		result, err := app.workflow.Run(ctx, recommend.Options{
			AsOf:          date,
			Strategy:      backtestStrategy,
			WithNews:      false,
			UniverseCodes: universeCodes,
		})
		if err != nil {
			if errors.Is(err, recommend.ErrNoScorableStocks) {
				skipped++
				continue
			}
			return fmt.Errorf("backtest run at %s: %w", date.Format("2006-01-02"), err)
		}

		runs++
		picks := make([]string, 0, len(result.Candidates))
		for _, c := range result.Candidates {
			picks = append(picks, fmt.Sprintf("%s(%d)", c.Code, c.Score))
		}
		fmt.Printf("%s [%s] %s\n", result.AsOf, result.Regime, strings.Join(picks, " "))
	}

	fmt.Printf("\n실행 %d회, 건너뜀 %d회\n", runs, skipped)
	return nil
}
