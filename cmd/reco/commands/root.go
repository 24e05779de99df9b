package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reco",
	Short: "stockreco - 한국 주식 종목 추천 엔진",
	Long: `stockreco Unified CLI

모멘텀/감성/변동성 복합 점수 기반 종목 추천 시스템.
네이버 시세/뉴스 수집부터 전략별 점수 산출, 별점 표시까지.

Usage:
  go run ./cmd/reco [command]

Examples:
  go run ./cmd/reco api
  go run ./cmd/reco recommend --strategy day_trader --top 5
  go run ./cmd/reco analyze 005930
  go run ./cmd/reco scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
