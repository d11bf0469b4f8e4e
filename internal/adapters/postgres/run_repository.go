package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BerkanHRGL/schadeautos/internal/core/domain"
)

const runColumns = `id, site, started_at, finished_at, pages_fetched, pages_failed,
	listings_found, listings_new, listings_updated, listings_skipped, status, last_error`

type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Create(ctx context.Context, run domain.ScrapeRun) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO scrape_runs (
			id, site, started_at, finished_at, pages_fetched, pages_failed,
			listings_found, listings_new, listings_updated, listings_skipped, status, last_error
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, run.Site, run.StartedAt, run.FinishedAt, run.PagesFetched, run.PagesFailed,
		run.ListingsFound, run.ListingsNew, run.ListingsUpdated, run.ListingsSkipped,
		string(run.Status), run.LastError,
	)
	if err != nil {
		return fmt.Errorf("inserting scrape run: %w", err)
	}
	return nil
}

func (r *RunRepository) Update(ctx context.Context, run domain.ScrapeRun) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE scrape_runs SET
			finished_at = $2, pages_fetched = $3, pages_failed = $4, listings_found = $5,
			listings_new = $6, listings_updated = $7, listings_skipped = $8, status = $9,
			last_error = $10
		WHERE id = $1`,
		run.ID, run.FinishedAt, run.PagesFetched, run.PagesFailed, run.ListingsFound,
		run.ListingsNew, run.ListingsUpdated, run.ListingsSkipped, string(run.Status), run.LastError,
	)
	if err != nil {
		return fmt.Errorf("updating scrape run: %w", err)
	}
	return nil
}

func (r *RunRepository) Latest(ctx context.Context) ([]domain.ScrapeRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (site) `+runColumns+`
		 FROM scrape_runs
		 ORDER BY site, started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying latest runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.ScrapeRun, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+runColumns+`
		 FROM scrape_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		queryLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func scanRuns(rows pgx.Rows) ([]domain.ScrapeRun, error) {
	var runs []domain.ScrapeRun
	for rows.Next() {
		var run domain.ScrapeRun
		var status string
		err := rows.Scan(
			&run.ID, &run.Site, &run.StartedAt, &run.FinishedAt, &run.PagesFetched,
			&run.PagesFailed, &run.ListingsFound, &run.ListingsNew, &run.ListingsUpdated,
			&run.ListingsSkipped, &status, &run.LastError,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning scrape run: %w", err)
		}
		run.Status = domain.RunStatus(status)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
