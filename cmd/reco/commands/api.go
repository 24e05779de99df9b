package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockreco/internal/api"
	"github.com/wonny/stockreco/internal/api/handlers"
	"github.com/wonny/stockreco/internal/history"
	"github.com/wonny/stockreco/pkg/database"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health               - Health check
  POST /api/recommend        - 추천 실행
  GET  /api/strategies       - 지원 전략 목록
  GET  /api/analysis/{code}  - 단일 종목 분석
  GET  /api/history          - 추천 이력 (DB 설정 시)
  GET  /api/history/{id}     - 추천 이력 상세 (DB 설정 시)

Example:
  go run ./cmd/reco api
  go run ./cmd/reco api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	log := app.log

	recoHandler := handlers.NewRecommendHandler(app.workflow, log)

	// DB는 이력 조회용 선택 의존성
	var historyHandler *handlers.HistoryHandler
	if app.cfg.Database.URL != "" {
		db, err := database.New(app.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		historyHandler = handlers.NewHistoryHandler(history.NewRepository(db.Pool), app.cfg, log)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL 미설정, 이력 API 비활성")
	}

	router := api.NewRouter(recoHandler, historyHandler, log)
	server := api.New(app.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
