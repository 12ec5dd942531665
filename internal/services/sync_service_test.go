package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundpulse/internal/config"
	"fundpulse/pkg/contracts/domain"
)

func newSyncFixture(blobs *fakeBlobStore) (*SyncService, *fakeMetricsStore, *fakePositionsStore) {
	valuation := &fakeValuationParser{results: map[string]domain.ValuationMetrics{
		"val-1118": {Date: "2024-11-18", NavTotal: 1.01},
		"val-1120": {Date: "2024-11-20", NavTotal: 1.03},
		"val-nodate": {NavTotal: 1.02},
	}}
	trs := &fakeTrsParser{results: map[string]domain.TrsReport{
		"trs-1118": {Date: "2024-11-18", Positions: []domain.TrsPosition{{Ticker: "NVDA"}}},
		"trs-1120": {Date: "2024-11-20", Positions: []domain.TrsPosition{{Ticker: "TSLA"}}},
		"trs-nodate": {Positions: []domain.TrsPosition{{Ticker: "AAPL"}}},
	}}
	metrics := newFakeMetricsStore()
	positions := newFakePositionsStore()
	ingest := NewIngestService(valuation, trs, metrics, positions, nil)
	cfg := config.StorageConfig{ValuationFile: "valuation.xls", TrsFile: "trs.xlsx"}
	return NewSyncService(blobs, ingest, cfg, nil), metrics, positions
}

func TestSyncAll(t *testing.T) {
	blobs := &fakeBlobStore{
		folders: []string{"20241120", "20241118"},
		objects: map[string][]byte{
			"20241118/valuation.xls": []byte("val-1118"),
			"20241118/trs.xlsx":      []byte("trs-1118"),
			"20241120/valuation.xls": []byte("val-1120"),
			"20241120/trs.xlsx":      []byte("trs-1120"),
		},
	}
	svc, metrics, positions := newSyncFixture(blobs)

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Sorted by date regardless of listing order.
	assert.Equal(t, "2024-11-18", results[0].Date)
	assert.Equal(t, domain.SyncStatusSuccess, results[0].Status)
	assert.Equal(t, "2024-11-20", results[1].Date)

	assert.Len(t, metrics.rows, 2)
	assert.Len(t, positions.byDate["2024-11-20"], 1)
}

func TestSyncAllMissingFileFailsThatFolderOnly(t *testing.T) {
	blobs := &fakeBlobStore{
		folders: []string{"20241118", "20241120"},
		objects: map[string][]byte{
			"20241118/valuation.xls": []byte("val-1118"),
			// 20241118/trs.xlsx missing: both files are required.
			"20241120/valuation.xls": []byte("val-1120"),
			"20241120/trs.xlsx":      []byte("trs-1120"),
		},
	}
	svc, _, _ := newSyncFixture(blobs)

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, domain.SyncStatusError, results[0].Status)
	assert.Contains(t, results[0].Reason, "trs.xlsx")
	assert.Equal(t, domain.SyncStatusSuccess, results[1].Status)
}

func TestSyncAllFolderDateFallback(t *testing.T) {
	blobs := &fakeBlobStore{
		folders: []string{"20241121"},
		objects: map[string][]byte{
			"20241121/valuation.xls": []byte("val-nodate"),
			"20241121/trs.xlsx":      []byte("trs-nodate"),
		},
	}
	svc, metrics, positions := newSyncFixture(blobs)

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2024-11-21", results[0].Date)
	assert.Equal(t, domain.SyncStatusSuccess, results[0].Status)
	assert.Contains(t, metrics.rows, "2024-11-21")
	assert.Contains(t, positions.byDate, "2024-11-21")
}

func TestSyncAllListError(t *testing.T) {
	blobs := &fakeBlobStore{listErr: errors.New("storage list returned status 500")}
	svc, _, _ := newSyncFixture(blobs)

	_, err := svc.SyncAll(context.Background())
	assert.Error(t, err)
}

func TestSyncAllEmptyBucket(t *testing.T) {
	svc, _, _ := newSyncFixture(&fakeBlobStore{})

	results, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFolderDate(t *testing.T) {
	assert.Equal(t, "2024-11-20", folderDate("20241120"))
	assert.Equal(t, "notadate", folderDate("notadate"))
}
