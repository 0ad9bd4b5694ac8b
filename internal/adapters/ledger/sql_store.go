package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/obs"
)

// SQLStore persists the spend ledger in Postgres. Runners on different
// machines share one budget through it.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// InitSchema creates the ledger table when it does not exist yet.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("init schema: DB is nil")
	}

	createLedgerRunsQuery := `
	CREATE TABLE IF NOT EXISTS ledger_runs (
		id BIGSERIAL PRIMARY KEY,
		run_date TIMESTAMPTZ NOT NULL,
		elements INTEGER NOT NULL,
		cost_usd DOUBLE PRECISION NOT NULL,
		mode TEXT NOT NULL,
		output TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_ledger_runs_run_date
	ON ledger_runs(run_date);
	`

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{createLedgerRunsQuery, createIndexQuery} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func (s *SQLStore) Load(ctx context.Context) (_ *domain.Ledger, err error) {
	defer obs.Time(ctx, "ledger.sql.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("load ledger: DB is nil")
	}

	q := `
	SELECT run_date, elements, cost_usd, mode, output
	FROM ledger_runs
	ORDER BY run_date, id;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load ledger: query ledger_runs table: %w", err)
	}
	defer rows.Close()

	led := &domain.Ledger{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.Date, &e.Elements, &e.CostUSD, &e.Mode, &e.Output); err != nil {
			return nil, fmt.Errorf("load ledger: scan rows: %w", err)
		}
		led.Runs = append(led.Runs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger: row iteration: %w", err)
	}

	return led, nil
}

func (s *SQLStore) Append(ctx context.Context, entry domain.LedgerEntry) error {
	if s.DB == nil {
		return errors.New("append ledger: DB is nil")
	}

	q := `
	INSERT INTO ledger_runs (run_date, elements, cost_usd, mode, output)
	VALUES ($1, $2, $3, $4, $5);
	`

	if _, err := s.DB.ExecContext(ctx, q, entry.Date, entry.Elements, entry.CostUSD, entry.Mode, entry.Output); err != nil {
		return fmt.Errorf("append ledger: insert run: %w", err)
	}

	return nil
}
