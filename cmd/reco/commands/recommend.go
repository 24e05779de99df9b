package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockreco/internal/recommend"
	"github.com/wonny/stockreco/internal/strategy"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "종목 추천 실행",
	Long: `전략 기반 종목 추천을 1회 실행하고 결과를 출력합니다.

Flags:
  --strategy  전략 이름 (default|day_trader|long_term)
  --top       추천 종목 수 (기본: 5)
  --no-news   뉴스 감성 분석 생략
  --save      결과를 데이터베이스에 저장

Example:
  go run ./cmd/reco recommend
  go run ./cmd/reco recommend --strategy day_trader --top 3
  go run ./cmd/reco recommend --no-news --save`,
	RunE: runRecommend,
}

var (
	recommendStrategy string
	recommendTopN     int
	recommendNoNews   bool
	recommendSave     bool
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendStrategy, "strategy", strategy.Default, "전략 이름")
	recommendCmd.Flags().IntVar(&recommendTopN, "top", 5, "추천 종목 수")
	recommendCmd.Flags().BoolVar(&recommendNoNews, "no-news", false, "뉴스 감성 분석 생략")
	recommendCmd.Flags().BoolVar(&recommendSave, "save", false, "결과를 데이터베이스에 저장")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	fmt.Println("=== stockreco 종목 추천 ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	result, err := app.workflow.Run(ctx, recommend.Options{
		Strategy: recommendStrategy,
		TopN:     recommendTopN,
		WithNews: !recommendNoNews,
	})
	if err != nil {
		return fmt.Errorf("recommendation run: %w", err)
	}

	fmt.Printf("\n기준일: %s | 시장: %s | 전략: %s | 시장상황: %s\n",
		result.AsOf, app.cfg.Market, result.Strategy, result.Regime)
	fmt.Printf("소요시간: %s\n\n", time.Since(start).Round(time.Millisecond))

	for i, item := range result.Candidates {
		fmt.Printf("%d. %s (%s)  점수 %d  %s  비중 %.0f%%\n",
			i+1, item.Name, item.Code, item.Score, strings.Repeat("★", item.Stars), item.Weight*100)
		fmt.Printf("   현재가 %.0f원 | %s\n", item.Price, item.Reason)
		if item.NewsSentiment != nil && item.NewsSentiment.Enabled {
			fmt.Printf("   뉴스: %s (점수 %.2f)\n", item.NewsSentiment.Summary, item.NewsSentiment.Score)
		}
	}

	if recommendSave {
		if err := saveResult(ctx, app, result); err != nil {
			return err
		}
		fmt.Println("\n✅ 추천 이력 저장 완료")
	}

	return nil
}
