package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fundpulse/pkg/contracts/domain"
)

// MetricsRepo stores daily fund metrics, one row per report date.
type MetricsRepo struct {
	pool *pgxpool.Pool
}

// NewMetricsRepo creates a metrics repository.
func NewMetricsRepo(pool *pgxpool.Pool) *MetricsRepo {
	return &MetricsRepo{pool: pool}
}

// Upsert inserts or fully replaces the metrics row for the record's date.
func (r *MetricsRepo) Upsert(ctx context.Context, m domain.ValuationMetrics) error {
	query := `
		INSERT INTO fund_daily_metrics (
			date, nav_total, nav_a, nav_b, total_asset_val, cash_balance
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date)
		DO UPDATE SET
			nav_total = EXCLUDED.nav_total,
			nav_a = EXCLUDED.nav_a,
			nav_b = EXCLUDED.nav_b,
			total_asset_val = EXCLUDED.total_asset_val,
			cash_balance = EXCLUDED.cash_balance
	`
	_, err := r.pool.Exec(ctx, query,
		m.Date, m.NavTotal, m.NavA, m.NavB, m.TotalAsset, m.Cash)
	if err != nil {
		return fmt.Errorf("failed to upsert metrics for %s: %w", m.Date, err)
	}
	return nil
}

// EnsurePlaceholder creates a zero-valued metrics row for a date unless one
// already exists. Position rows reference the metrics date, so a TRS report
// uploaded before its valuation sheet needs this placeholder.
func (r *MetricsRepo) EnsurePlaceholder(ctx context.Context, date string) error {
	query := `
		INSERT INTO fund_daily_metrics (
			date, nav_total, nav_a, nav_b, total_asset_val, cash_balance
		) VALUES ($1, 0, 0, 0, 0, 0)
		ON CONFLICT (date) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, date); err != nil {
		return fmt.Errorf("failed to ensure metrics row for %s: %w", date, err)
	}
	return nil
}

// Latest returns up to limit metrics rows, most recent date first.
func (r *MetricsRepo) Latest(ctx context.Context, limit int) ([]domain.ValuationMetrics, error) {
	query := `
		SELECT date, nav_total, nav_a, nav_b, total_asset_val, cash_balance
		FROM fund_daily_metrics
		ORDER BY date DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.ValuationMetrics
	for rows.Next() {
		var m domain.ValuationMetrics
		if err := rows.Scan(&m.Date, &m.NavTotal, &m.NavA, &m.NavB, &m.TotalAsset, &m.Cash); err != nil {
			return nil, fmt.Errorf("failed to scan metrics row: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
