package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"fundpulse/internal/config"
	"fundpulse/pkg/contracts/domain"
)

// syncConcurrency bounds how many report folders are processed at once.
const syncConcurrency = 4

// SyncService walks the storage bucket and ingests every dated report folder.
type SyncService struct {
	blobs  BlobStore
	ingest *IngestService
	cfg    config.StorageConfig
	logger *slog.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(blobs BlobStore, ingest *IngestService, cfg config.StorageConfig, logger *slog.Logger) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		blobs:  blobs,
		ingest: ingest,
		cfg:    cfg,
		logger: logger,
	}
}

// SyncAll lists the dated report folders in the bucket and ingests each one.
// Folders are processed concurrently; a failure in one folder is recorded in
// its result and does not stop the others. Results come back sorted by date.
func (s *SyncService) SyncAll(ctx context.Context) ([]domain.SyncResult, error) {
	folders, err := s.blobs.ListDateFolders(ctx)
	if err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list report folders: %w", err)
	}

	s.logger.InfoContext(ctx, "sync started", slog.Int("folders", len(folders)))

	results := make([]domain.SyncResult, 0, len(folders))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, folder := range folders {
		folder := folder
		g.Go(func() error {
			result := s.syncFolder(gctx, folder)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		syncRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })

	syncRuns.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "sync finished", slog.Int("folders", len(results)))
	return results, nil
}

// syncFolder ingests one dated folder. Both report files must be present; the
// folder name supplies the date when a sheet carries none.
func (s *SyncService) syncFolder(ctx context.Context, folder string) domain.SyncResult {
	fallbackDate := folderDate(folder)

	valuationData, err := s.blobs.Download(ctx, folder+"/"+s.cfg.ValuationFile)
	if err != nil {
		return s.failure(ctx, folder, fmt.Sprintf("download %s: %v", s.cfg.ValuationFile, err))
	}
	trsData, err := s.blobs.Download(ctx, folder+"/"+s.cfg.TrsFile)
	if err != nil {
		return s.failure(ctx, folder, fmt.Sprintf("download %s: %v", s.cfg.TrsFile, err))
	}

	metrics, err := s.ingest.IngestValuation(ctx, valuationData, fallbackDate)
	if err != nil {
		return s.failure(ctx, folder, fmt.Sprintf("ingest valuation: %v", err))
	}
	if _, err := s.ingest.IngestTrs(ctx, trsData, metrics.Date); err != nil {
		return s.failure(ctx, folder, fmt.Sprintf("ingest TRS: %v", err))
	}

	return domain.SyncResult{Date: metrics.Date, Status: domain.SyncStatusSuccess}
}

func (s *SyncService) failure(ctx context.Context, folder, reason string) domain.SyncResult {
	s.logger.ErrorContext(ctx, "folder sync failed",
		slog.String("folder", folder),
		slog.String("reason", reason))
	return domain.SyncResult{
		Date:   folderDate(folder),
		Status: domain.SyncStatusError,
		Reason: reason,
	}
}

// folderDate converts a compact folder name like "20241120" to "2024-11-20".
// Names that are not eight digits come back unchanged.
func folderDate(folder string) string {
	if len(folder) != 8 {
		return folder
	}
	return folder[:4] + "-" + folder[4:6] + "-" + folder[6:]
}
