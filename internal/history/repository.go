package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/stockreco/internal/contracts"
)

// Repository handles recommendation history persistence
// ⭐ SSOT: 추천 이력 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Run is one persisted recommendation run
type Run struct {
	ID         int64                 `json:"id"`
	RunDate    string                `json:"run_date"`
	Market     string                `json:"market"`
	Strategy   string                `json:"strategy"`
	Regime     contracts.Regime      `json:"market_condition"`
	Candidates []contracts.RecoItem  `json:"candidates,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// SaveRun persists one recommendation run with its candidates.
// 같은 날짜+전략 조합은 최신 실행으로 덮어쓴다.
func (r *Repository) SaveRun(ctx context.Context, market string, result *contracts.RecoResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"DELETE FROM recommendation_runs WHERE run_date = $1 AND strategy = $2 AND market = $3",
		result.AsOf, result.Strategy, market,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old run: %w", err)
	}

	var runID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO recommendation_runs (run_date, market, strategy, market_condition)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, result.AsOf, market, result.Strategy, string(result.Regime)).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	query := `
		INSERT INTO recommended_stocks (
			run_id, stock_code, stock_name, score, stars, weight,
			price, reason, momentum, news_sentiment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, c := range result.Candidates {
		momentumJSON, err := json.Marshal(c.Momentum)
		if err != nil {
			return fmt.Errorf("failed to marshal momentum: %w", err)
		}

		var newsJSON []byte
		if c.NewsSentiment != nil {
			newsJSON, err = json.Marshal(c.NewsSentiment)
			if err != nil {
				return fmt.Errorf("failed to marshal news sentiment: %w", err)
			}
		}

		_, err = tx.Exec(ctx, query,
			runID, c.Code, c.Name, c.Score, c.Stars, c.Weight,
			c.Price, c.Reason, momentumJSON, newsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRuns retrieves recent runs, newest first, without candidates
func (r *Repository) ListRuns(ctx context.Context, market string, limit int) ([]Run, error) {
	query := `
		SELECT id, run_date, market, strategy, market_condition, created_at
		FROM recommendation_runs
		WHERE market = $1
		ORDER BY run_date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, market, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)

	for rows.Next() {
		var run Run
		var runDate time.Time
		err := rows.Scan(&run.ID, &runDate, &run.Market, &run.Strategy, &run.Regime, &run.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.RunDate = runDate.Format("2006-01-02")
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return runs, nil
}

// GetRun retrieves one run with its full candidate list
func (r *Repository) GetRun(ctx context.Context, id int64) (*Run, error) {
	var run Run
	var runDate time.Time

	err := r.pool.QueryRow(ctx, `
		SELECT id, run_date, market, strategy, market_condition, created_at
		FROM recommendation_runs
		WHERE id = $1
	`, id).Scan(&run.ID, &runDate, &run.Market, &run.Strategy, &run.Regime, &run.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no recommendation run found for id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.RunDate = runDate.Format("2006-01-02")

	rows, err := r.pool.Query(ctx, `
		SELECT stock_code, stock_name, score, stars, weight, price, reason, momentum, news_sentiment
		FROM recommended_stocks
		WHERE run_id = $1
		ORDER BY score DESC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item contracts.RecoItem
		var momentumJSON, newsJSON []byte
		err := rows.Scan(
			&item.Code, &item.Name, &item.Score, &item.Stars, &item.Weight,
			&item.Price, &item.Reason, &momentumJSON, &newsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		if err := json.Unmarshal(momentumJSON, &item.Momentum); err != nil {
			return nil, fmt.Errorf("failed to unmarshal momentum: %w", err)
		}
		if len(newsJSON) > 0 {
			item.NewsSentiment = &contracts.NewsSentiment{}
			if err := json.Unmarshal(newsJSON, item.NewsSentiment); err != nil {
				return nil, fmt.Errorf("failed to unmarshal news sentiment: %w", err)
			}
		}

		run.Candidates = append(run.Candidates, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &run, nil
}
