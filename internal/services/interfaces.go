package services

import (
	"context"

	"fundpulse/pkg/contracts/domain"
)

// MetricsStore persists daily fund metrics.
type MetricsStore interface {
	Upsert(ctx context.Context, m domain.ValuationMetrics) error
	EnsurePlaceholder(ctx context.Context, date string) error
	Latest(ctx context.Context, limit int) ([]domain.ValuationMetrics, error)
}

// PositionsStore persists per-ticker swap positions keyed by report date.
type PositionsStore interface {
	ReplaceForDate(ctx context.Context, date string, positions []domain.TrsPosition) error
	ForDate(ctx context.Context, date string) ([]domain.TrsPosition, error)
	LatestDate(ctx context.Context) (string, error)
}

// BlobStore lists and downloads report files from the storage bucket.
type BlobStore interface {
	ListDateFolders(ctx context.Context) ([]string, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

// ValuationParser extracts daily metrics from a valuation workbook.
type ValuationParser interface {
	Parse(data []byte) (domain.ValuationMetrics, error)
}

// TrsParser extracts aggregated positions from a swap mark-to-market workbook.
type TrsParser interface {
	Parse(data []byte) (domain.TrsReport, error)
}
