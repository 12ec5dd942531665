package http

import (
	"context"

	"fundpulse/pkg/contracts/domain"
)

// IngestServiceInterface defines the ingest operations handlers depend on.
type IngestServiceInterface interface {
	IngestValuation(ctx context.Context, data []byte, fallbackDate string) (domain.ValuationMetrics, error)
	IngestTrs(ctx context.Context, data []byte, fallbackDate string) (domain.TrsReport, error)
}

// SyncServiceInterface defines the bucket sync operation.
type SyncServiceInterface interface {
	SyncAll(ctx context.Context) ([]domain.SyncResult, error)
}

// DataServiceInterface defines read access to stored fund data.
type DataServiceInterface interface {
	LatestMetrics(ctx context.Context, limit int) ([]domain.ValuationMetrics, error)
	PositionsForDate(ctx context.Context, date string) (domain.TrsReport, error)
}

// AssistantServiceInterface defines the chat completion operation.
type AssistantServiceInterface interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error)
}
