package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stockreco/internal/history"
	"github.com/wonny/stockreco/internal/scheduler"
	"github.com/wonny/stockreco/internal/scheduler/jobs"
	"github.com/wonny/stockreco/pkg/database"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "일일 추천 스케줄러 시작",
	Long: `장 마감 후 매 영업일 추천을 실행하는 스케줄러를 시작합니다.

- 평일 16:30 KST에 추천 실행
- DATABASE_URL 설정 시 결과를 이력으로 저장

Example:
  go run ./cmd/reco scheduler
  go run ./cmd/reco scheduler --now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "시작 직후 1회 즉시 실행")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== stockreco Scheduler ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.log

	var repo *history.Repository
	if app.cfg.Database.URL != "" {
		db, err := database.New(app.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		repo = history.NewRepository(db.Pool)
	} else {
		log.Warn("DATABASE_URL 미설정, 추천 결과는 저장되지 않음")
	}

	sched := scheduler.New(log)

	job := jobs.NewRecommendationJob(app.workflow, repo, app.cfg, log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return fmt.Errorf("run job now: %w", err)
		}
	}

	fmt.Println("\n✅ Scheduler running (weekdays 16:30 KST)")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
