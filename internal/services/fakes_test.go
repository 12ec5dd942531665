package services

import (
	"context"
	"errors"
	"sync"

	"fundpulse/pkg/contracts/domain"
)

// fakeMetricsStore records calls in memory, keyed by date.
type fakeMetricsStore struct {
	mu        sync.Mutex
	rows      map[string]domain.ValuationMetrics
	order     []string
	upsertErr error
	latestErr error
}

func newFakeMetricsStore() *fakeMetricsStore {
	return &fakeMetricsStore{rows: make(map[string]domain.ValuationMetrics)}
}

func (f *fakeMetricsStore) Upsert(_ context.Context, m domain.ValuationMetrics) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[m.Date]; !ok {
		f.order = append(f.order, m.Date)
	}
	f.rows[m.Date] = m
	return nil
}

func (f *fakeMetricsStore) EnsurePlaceholder(ctx context.Context, date string) error {
	f.mu.Lock()
	_, exists := f.rows[date]
	f.mu.Unlock()
	if exists {
		return nil
	}
	return f.Upsert(ctx, domain.ValuationMetrics{Date: date})
}

func (f *fakeMetricsStore) Latest(_ context.Context, limit int) ([]domain.ValuationMetrics, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ValuationMetrics
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.rows[f.order[i]])
	}
	return out, nil
}

// fakePositionsStore records the last replace per date.
type fakePositionsStore struct {
	mu         sync.Mutex
	byDate     map[string][]domain.TrsPosition
	latest     string
	replaceErr error
	forDateErr error
}

func newFakePositionsStore() *fakePositionsStore {
	return &fakePositionsStore{byDate: make(map[string][]domain.TrsPosition)}
}

func (f *fakePositionsStore) ReplaceForDate(_ context.Context, date string, positions []domain.TrsPosition) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byDate[date] = positions
	if date > f.latest {
		f.latest = date
	}
	return nil
}

func (f *fakePositionsStore) ForDate(_ context.Context, date string) ([]domain.TrsPosition, error) {
	if f.forDateErr != nil {
		return nil, f.forDateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byDate[date], nil
}

func (f *fakePositionsStore) LatestDate(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, nil
}

// fakeBlobStore serves canned folder listings and object bytes.
type fakeBlobStore struct {
	folders []string
	objects map[string][]byte
	listErr error
}

func (f *fakeBlobStore) ListDateFolders(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.folders, nil
}

func (f *fakeBlobStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := f.objects[path]
	if !ok {
		return nil, errors.New("object not found: " + path)
	}
	return data, nil
}

// fakeValuationParser returns a fixed result per input string.
type fakeValuationParser struct {
	results map[string]domain.ValuationMetrics
	err     error
}

func (f *fakeValuationParser) Parse(data []byte) (domain.ValuationMetrics, error) {
	if f.err != nil {
		return domain.ValuationMetrics{}, f.err
	}
	return f.results[string(data)], nil
}

type fakeTrsParser struct {
	results map[string]domain.TrsReport
	err     error
}

func (f *fakeTrsParser) Parse(data []byte) (domain.TrsReport, error) {
	if f.err != nil {
		return domain.TrsReport{}, f.err
	}
	return f.results[string(data)], nil
}
