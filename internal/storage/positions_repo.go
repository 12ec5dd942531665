package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundpulse/pkg/contracts/domain"
)

// PositionsRepo stores aggregated swap positions keyed by report date.
type PositionsRepo struct {
	pool *pgxpool.Pool
}

// NewPositionsRepo creates a positions repository.
func NewPositionsRepo(pool *pgxpool.Pool) *PositionsRepo {
	return &PositionsRepo{pool: pool}
}

// ReplaceForDate removes all positions for the report date and inserts the
// given set in a single transaction. Re-ingesting the same report is therefore
// idempotent rather than additive.
func (r *PositionsRepo) ReplaceForDate(ctx context.Context, date string, positions []domain.TrsPosition) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trs_positions WHERE report_date = $1`, date); err != nil {
		return fmt.Errorf("failed to clear positions for %s: %w", date, err)
	}

	if len(positions) > 0 {
		rows := make([][]interface{}, 0, len(positions))
		for _, p := range positions {
			rows = append(rows, []interface{}{
				date, p.Ticker, p.AssetName, p.NotionalCost, p.MarketValue, p.PnLUnrealized, 1.0,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"trs_positions"},
			[]string{"report_date", "ticker", "asset_name", "notional_cost", "market_value", "pnl_unrealized", "fx_rate"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to insert positions for %s: %w", date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit positions for %s: %w", date, err)
	}
	return nil
}

// ForDate returns the positions recorded for a report date in insertion order.
func (r *PositionsRepo) ForDate(ctx context.Context, date string) ([]domain.TrsPosition, error) {
	query := `
		SELECT ticker, asset_name, notional_cost, market_value, pnl_unrealized
		FROM trs_positions
		WHERE report_date = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for %s: %w", date, err)
	}
	defer rows.Close()

	var positions []domain.TrsPosition
	for rows.Next() {
		var p domain.TrsPosition
		if err := rows.Scan(&p.Ticker, &p.AssetName, &p.NotionalCost, &p.MarketValue, &p.PnLUnrealized); err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// LatestDate returns the most recent report date that has positions, or ""
// when the table is empty.
func (r *PositionsRepo) LatestDate(ctx context.Context) (string, error) {
	var date string
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(report_date), '') FROM trs_positions`).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("failed to query latest report date: %w", err)
	}
	return date, nil
}
