package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "fundpulse/internal/errors"
	"fundpulse/internal/services"
	"fundpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(testLogger())
}

type fakeIngestService struct {
	valuation    domain.ValuationMetrics
	trs          domain.TrsReport
	err          error
	lastFallback string
}

func (f *fakeIngestService) IngestValuation(_ context.Context, _ []byte, fallbackDate string) (domain.ValuationMetrics, error) {
	f.lastFallback = fallbackDate
	return f.valuation, f.err
}

func (f *fakeIngestService) IngestTrs(_ context.Context, _ []byte, fallbackDate string) (domain.TrsReport, error) {
	f.lastFallback = fallbackDate
	return f.trs, f.err
}

type fakeSyncService struct {
	results []domain.SyncResult
	err     error
}

func (f *fakeSyncService) SyncAll(context.Context) ([]domain.SyncResult, error) {
	return f.results, f.err
}

type fakeDataService struct {
	metrics   []domain.ValuationMetrics
	report    domain.TrsReport
	err       error
	lastLimit int
	lastDate  string
}

func (f *fakeDataService) LatestMetrics(_ context.Context, limit int) ([]domain.ValuationMetrics, error) {
	f.lastLimit = limit
	return f.metrics, f.err
}

func (f *fakeDataService) PositionsForDate(_ context.Context, date string) (domain.TrsReport, error) {
	f.lastDate = date
	return f.report, f.err
}

type fakeAssistantService struct {
	reply domain.ChatMessage
	err   error
}

func (f *fakeAssistantService) Chat(context.Context, []domain.ChatMessage) (domain.ChatMessage, error) {
	return f.reply, f.err
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestUploadValuation(t *testing.T) {
	svc := &fakeIngestService{valuation: domain.ValuationMetrics{Date: "2024-11-20", NavTotal: 1.0322}}
	h := NewUploadHandler(svc, 1<<20, testLogger(), testErrorHandler())

	body, contentType := multipartUpload(t, map[string]string{"type": "valuation"}, "valuation.xls", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.ValuationMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2024-11-20", got.Date)
	assert.Equal(t, "", svc.lastFallback)
}

func TestUploadTrsWithDate(t *testing.T) {
	svc := &fakeIngestService{trs: domain.TrsReport{Date: "2024-11-20"}}
	h := NewUploadHandler(svc, 1<<20, testLogger(), testErrorHandler())

	body, contentType := multipartUpload(t, map[string]string{"type": "trs", "date": "2024-11-20"}, "trs.xlsx", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "2024-11-20", svc.lastFallback)
}

func TestUploadValidation(t *testing.T) {
	h := NewUploadHandler(&fakeIngestService{}, 1<<20, testLogger(), testErrorHandler())

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{name: "missing type", fields: map[string]string{}, filename: "a.xlsx"},
		{name: "bad type", fields: map[string]string{"type": "pdf"}, filename: "a.xlsx"},
		{name: "bad date", fields: map[string]string{"type": "trs", "date": "20241120"}, filename: "a.xlsx"},
		{name: "missing file", fields: map[string]string{"type": "trs"}, filename: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, tt.fields, tt.filename, []byte("bytes"))
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
		})
	}
}

func TestUploadDatelessReport(t *testing.T) {
	svc := &fakeIngestService{err: services.ErrReportDateless}
	h := NewUploadHandler(svc, 1<<20, testLogger(), testErrorHandler())

	body, contentType := multipartUpload(t, map[string]string{"type": "valuation"}, "valuation.xls", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "date-missing")
}

func TestUploadTooLarge(t *testing.T) {
	h := NewUploadHandler(&fakeIngestService{}, 64, testLogger(), testErrorHandler())

	body, contentType := multipartUpload(t, map[string]string{"type": "valuation"}, "valuation.xls", bytes.Repeat([]byte("x"), 4096))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSyncHandler(t *testing.T) {
	svc := &fakeSyncService{results: []domain.SyncResult{
		{Date: "2024-11-18", Status: domain.SyncStatusSuccess},
		{Date: "2024-11-20", Status: domain.SyncStatusError, Reason: "download trs.xlsx: object not found"},
	}}
	h := NewSyncHandler(svc, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Synced  int                 `json:"synced"`
		Failed  int                 `json:"failed"`
		Results []domain.SyncResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Synced)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Results, 2)
}

func TestSyncHandlerError(t *testing.T) {
	h := NewSyncHandler(&fakeSyncService{err: errors.New("storage list returned status 500")}, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetMetrics(t *testing.T) {
	svc := &fakeDataService{metrics: []domain.ValuationMetrics{{Date: "2024-11-20", NavTotal: 1.0322}}}
	h := NewDataHandler(svc, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics?limit=5", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.lastLimit)
	assert.Contains(t, rec.Body.String(), "2024-11-20")
}

func TestGetMetricsBadLimit(t *testing.T) {
	h := NewDataHandler(&fakeDataService{}, testLogger(), testErrorHandler())

	for _, limit := range []string{"abc", "0", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/metrics?limit="+limit, nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestGetMetricsNoneStored(t *testing.T) {
	h := NewDataHandler(&fakeDataService{err: services.ErrNoMetricsFound}, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPositions(t *testing.T) {
	svc := &fakeDataService{report: domain.TrsReport{
		Date:      "2024-11-20",
		Positions: []domain.TrsPosition{{Ticker: "NVDA", PnLUnrealized: 200}},
	}}
	h := NewDataHandler(svc, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/positions?date=2024-11-20", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-11-20", svc.lastDate)
	assert.Contains(t, rec.Body.String(), "NVDA")
}

func TestGetPositionsBadDate(t *testing.T) {
	h := NewDataHandler(&fakeDataService{}, testLogger(), testErrorHandler())

	req := httptest.NewRequest(http.MethodGet, "/positions?date=20241120", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler(t *testing.T) {
	svc := &fakeAssistantService{reply: domain.ChatMessage{Role: "assistant", Content: "NAV is 1.0322."}}
	h := NewChatHandler(svc, testLogger(), testErrorHandler())

	body := `{"messages":[{"role":"user","content":"what is the NAV?"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var reply domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "NAV is 1.0322.", reply.Content)
}

func TestChatHandlerValidation(t *testing.T) {
	h := NewChatHandler(&fakeAssistantService{}, testLogger(), testErrorHandler())

	for _, body := range []string{
		`not json`,
		`{"messages":[]}`,
		`{"messages":[{"role":"system","content":"x"}]}`,
		`{"messages":[{"role":"user"}]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"1.2.3"`)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
