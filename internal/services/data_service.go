package services

import (
	"context"
	"log/slog"

	"fundpulse/pkg/contracts/domain"
)

// defaultMetricsLimit caps how many daily rows a history query returns when
// the caller gives no limit.
const defaultMetricsLimit = 30

// DataService provides read access to stored metrics and positions.
type DataService struct {
	metrics   MetricsStore
	positions PositionsStore
	logger    *slog.Logger
}

// NewDataService creates a data service.
func NewDataService(metrics MetricsStore, positions PositionsStore, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		metrics:   metrics,
		positions: positions,
		logger:    logger,
	}
}

// LatestMetrics returns up to limit daily metrics rows, most recent first.
// A non-positive limit falls back to the default.
func (s *DataService) LatestMetrics(ctx context.Context, limit int) ([]domain.ValuationMetrics, error) {
	if limit <= 0 {
		limit = defaultMetricsLimit
	}
	metrics, err := s.metrics.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, ErrNoMetricsFound
	}
	return metrics, nil
}

// PositionsForDate returns the positions for a report date. An empty date
// selects the most recent date that has positions.
func (s *DataService) PositionsForDate(ctx context.Context, date string) (domain.TrsReport, error) {
	if date == "" {
		latest, err := s.positions.LatestDate(ctx)
		if err != nil {
			return domain.TrsReport{}, err
		}
		if latest == "" {
			return domain.TrsReport{}, ErrNoPositionsFound
		}
		date = latest
	}

	positions, err := s.positions.ForDate(ctx, date)
	if err != nil {
		return domain.TrsReport{}, err
	}
	if len(positions) == 0 {
		return domain.TrsReport{}, ErrNoPositionsFound
	}
	return domain.TrsReport{Date: date, Positions: positions}, nil
}
