package dataprocessing

import (
	"log/slog"

	"fundpulse/internal/workbook"
	"fundpulse/pkg/contracts/domain"
)

// ValuationExtractor extracts daily fund metrics from a back-office
// valuation sheet. It holds no mutable state and is safe for concurrent use.
type ValuationExtractor struct {
	logger *slog.Logger
	rules  []metricRule
}

// NewValuationExtractor creates a valuation extractor. A nil logger falls
// back to slog.Default().
func NewValuationExtractor(logger *slog.Logger) *ValuationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValuationExtractor{
		logger: logger.With(slog.String("component", "valuation_extractor")),
		rules:  valuationRules(),
	}
}

// Parse decodes workbook bytes and extracts the metrics record from the
// first sheet. Labels can appear anywhere in the grid; each field honors
// only the first row it can be extracted from. A field whose label is never
// found keeps its zero value — the error return covers only bytes that do
// not decode as a spreadsheet.
func (e *ValuationExtractor) Parse(b []byte) (domain.ValuationMetrics, error) {
	var metrics domain.ValuationMetrics

	wb, err := workbook.Decode(b)
	if err != nil {
		return metrics, err
	}

	sheet := wb.First()
	if sheet == nil {
		e.logger.Warn("valuation workbook has no sheets")
		return metrics, nil
	}

	found := make(map[string]bool, len(e.rules))
	for i := range sheet.Rows {
		joined := sheet.JoinedRow(i)

		if metrics.Date == "" {
			if m := labeledDateRe.FindStringSubmatch(joined); m != nil {
				metrics.Date = m[1]
			}
		}

		for r := range e.rules {
			rule := &e.rules[r]
			if found[rule.field] {
				continue
			}
			if v, ok := rule.tryExtract(sheet, i, joined); ok {
				rule.assign(&metrics, v)
				found[rule.field] = true
			}
		}
	}

	// No labeled date row: fall back to any bare ISO date in the sheet.
	if metrics.Date == "" {
		for i := range sheet.Rows {
			if m := bareDateRe.FindString(sheet.JoinedRow(i)); m != "" {
				metrics.Date = m
				break
			}
		}
	}

	for r := range e.rules {
		if !found[e.rules[r].field] {
			e.logger.Warn("metric label not found, field defaults to zero",
				slog.String("field", e.rules[r].field),
				slog.String("label", e.rules[r].label))
		}
	}
	if metrics.Date == "" {
		e.logger.Warn("no report date found in valuation sheet")
	}

	return metrics, nil
}
