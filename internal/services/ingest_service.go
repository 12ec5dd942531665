package services

import (
	"context"
	"fmt"
	"log/slog"

	"fundpulse/pkg/contracts/domain"
)

// IngestService parses uploaded report workbooks and persists their contents.
type IngestService struct {
	valuation ValuationParser
	trs       TrsParser
	metrics   MetricsStore
	positions PositionsStore
	logger    *slog.Logger
}

// NewIngestService creates an ingest service.
func NewIngestService(valuation ValuationParser, trs TrsParser, metrics MetricsStore, positions PositionsStore, logger *slog.Logger) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		valuation: valuation,
		trs:       trs,
		metrics:   metrics,
		positions: positions,
		logger:    logger,
	}
}

// IngestValuation extracts daily metrics from a valuation workbook and upserts
// them. fallbackDate is used when the sheet itself carries no date; it may be
// empty, in which case a dateless sheet is rejected with ErrReportDateless.
func (s *IngestService) IngestValuation(ctx context.Context, data []byte, fallbackDate string) (domain.ValuationMetrics, error) {
	m, err := s.valuation.Parse(data)
	if err != nil {
		reportsIngested.WithLabelValues("valuation", "error").Inc()
		return domain.ValuationMetrics{}, fmt.Errorf("failed to parse valuation report: %w", err)
	}

	if !m.HasDate() {
		if fallbackDate == "" {
			reportsIngested.WithLabelValues("valuation", "error").Inc()
			return domain.ValuationMetrics{}, ErrReportDateless
		}
		s.logger.WarnContext(ctx, "valuation sheet has no date, using fallback",
			slog.String("fallback_date", fallbackDate))
		m.Date = fallbackDate
	}

	if err := s.metrics.Upsert(ctx, m); err != nil {
		reportsIngested.WithLabelValues("valuation", "error").Inc()
		return domain.ValuationMetrics{}, err
	}

	reportsIngested.WithLabelValues("valuation", "success").Inc()
	s.logger.InfoContext(ctx, "valuation report ingested",
		slog.String("date", m.Date),
		slog.Float64("nav_total", m.NavTotal))
	return m, nil
}

// IngestTrs extracts aggregated positions from a swap mark-to-market workbook
// and replaces the stored set for the report date. A metrics row is created
// first when none exists, since positions reference the metrics date.
func (s *IngestService) IngestTrs(ctx context.Context, data []byte, fallbackDate string) (domain.TrsReport, error) {
	report, err := s.trs.Parse(data)
	if err != nil {
		reportsIngested.WithLabelValues("trs", "error").Inc()
		return domain.TrsReport{}, fmt.Errorf("failed to parse TRS report: %w", err)
	}

	if report.Date == "" {
		if fallbackDate == "" {
			reportsIngested.WithLabelValues("trs", "error").Inc()
			return domain.TrsReport{}, ErrReportDateless
		}
		s.logger.WarnContext(ctx, "TRS sheet has no date, using fallback",
			slog.String("fallback_date", fallbackDate))
		report.Date = fallbackDate
	}

	if err := s.metrics.EnsurePlaceholder(ctx, report.Date); err != nil {
		reportsIngested.WithLabelValues("trs", "error").Inc()
		return domain.TrsReport{}, err
	}
	if err := s.positions.ReplaceForDate(ctx, report.Date, report.Positions); err != nil {
		reportsIngested.WithLabelValues("trs", "error").Inc()
		return domain.TrsReport{}, err
	}

	reportsIngested.WithLabelValues("trs", "success").Inc()
	s.logger.InfoContext(ctx, "TRS report ingested",
		slog.String("date", report.Date),
		slog.Int("positions", len(report.Positions)))
	return report, nil
}
