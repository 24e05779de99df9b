package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [종목코드]",
	Short: "단일 종목 분석",
	Long: `한 종목의 기술적 지표와 뉴스 감성을 분석합니다.

Example:
  go run ./cmd/reco analyze 005930
  go run ./cmd/reco analyze 005930 --name 삼성전자 --no-news`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeName   string
	analyzeNoNews bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "종목명 (뉴스 검색어로 사용)")
	analyzeCmd.Flags().BoolVar(&analyzeNoNews, "no-news", false, "뉴스 감성 분석 생략")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	code := args[0]

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := app.workflow.Analyze(ctx, code, analyzeName, !analyzeNoNews)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", code, err)
	}

	fmt.Printf("=== %s (%s) 분석 | 기준일 %s ===\n", result.Name, result.Code, result.AsOf)

	if t := result.Technical; t != nil {
		fmt.Printf("\n현재가 %.0f원\n", t.Price)
		fmt.Printf("MA5 %.0f | MA20 %.0f | MA60 %.0f\n", t.MA5, t.MA20, t.MA60)
		fmt.Printf("RSI %.1f | ATR비율 %.2f%% | 20일 변동성 %.2f%%\n",
			t.RSI, t.ATRRatio*100, t.Volatility*100)
		fmt.Printf("모멘텀: 5일 %+.1f%% | 20일 %+.1f%% | 60일 %+.1f%%\n",
			t.Momentum.M5*100, t.Momentum.M20*100, t.Momentum.M60*100)
		fmt.Printf("추세: %s\n", t.Summary)
	} else {
		fmt.Println("\n거래 이력이 부족하여 기술적 분석을 생략했습니다.")
	}

	if n := result.News; n != nil {
		fmt.Printf("\n뉴스 감성: %s (점수 %.2f)\n", n.Summary, n.Score)
		for _, d := range n.Details {
			fmt.Printf("  [%s %.0f%%] %s\n", d.Label, d.Confidence*100, d.Title)
		}
	}

	return nil
}
