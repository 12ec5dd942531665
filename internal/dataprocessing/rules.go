package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"

	"fundpulse/internal/workbook"
	"fundpulse/pkg/contracts/domain"
)

// extractStrategy selects how a metric value is pulled out of a matching row.
type extractStrategy int

const (
	// strategyLabelValue captures the number trailing the label in the
	// row's joined text. Used when label and value sit next to each other.
	strategyLabelValue extractStrategy = iota

	// strategyMaxNumericInRow takes the largest numeric-typed cell of the
	// first row that contains the label in any cell. Used when label and
	// value are not adjacent; the largest number in a row labeled "total
	// assets" is assumed to be the asset figure rather than a column
	// index or percentage. Known to be a heuristic, not a guarantee.
	strategyMaxNumericInRow
)

// metricRule declares one labeled metric: where its label appears, how the
// value is extracted, and which field it lands in. Adding a metric to the
// valuation sheet is a new table entry, not new scan code.
type metricRule struct {
	field    string
	label    string
	strategy extractStrategy
	assign   func(*domain.ValuationMetrics, float64)

	pattern *regexp.Regexp
}

// valuationRules is the declarative metric table for the valuation sheet.
func valuationRules() []metricRule {
	rules := []metricRule{
		{
			field:    "nav_total",
			label:    labelNavTotal,
			strategy: strategyLabelValue,
			assign:   func(m *domain.ValuationMetrics, v float64) { m.NavTotal = v },
		},
		{
			field:    "nav_a",
			label:    labelNavA,
			strategy: strategyLabelValue,
			assign:   func(m *domain.ValuationMetrics, v float64) { m.NavA = v },
		},
		{
			field:    "nav_b",
			label:    labelNavB,
			strategy: strategyLabelValue,
			assign:   func(m *domain.ValuationMetrics, v float64) { m.NavB = v },
		},
		{
			field:    "total_asset_val",
			label:    labelAssets,
			strategy: strategyMaxNumericInRow,
			assign:   func(m *domain.ValuationMetrics, v float64) { m.TotalAsset = v },
		},
		{
			field:    "cash_balance",
			label:    labelCash,
			strategy: strategyMaxNumericInRow,
			assign:   func(m *domain.ValuationMetrics, v float64) { m.Cash = v },
		},
	}
	for i := range rules {
		if rules[i].strategy == strategyLabelValue {
			rules[i].pattern = regexp.MustCompile(regexp.QuoteMeta(rules[i].label) + `[:：\s]*([0-9.]+)`)
		}
	}
	return rules
}

// tryExtract applies the rule to one row. It reports whether a value was
// captured; a row that merely mentions the label without an extractable
// value does not satisfy the rule and scanning continues.
func (r *metricRule) tryExtract(sheet *workbook.Sheet, rowIdx int, joined string) (float64, bool) {
	switch r.strategy {
	case strategyLabelValue:
		m := r.pattern.FindStringSubmatch(joined)
		if m == nil {
			return 0, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return v, true

	case strategyMaxNumericInRow:
		row := sheet.Rows[rowIdx]
		labeled := false
		for _, c := range row {
			if c.IsString() && strings.Contains(c.Str, r.label) {
				labeled = true
				break
			}
		}
		if !labeled {
			return 0, false
		}
		max, found := 0.0, false
		for _, c := range row {
			if !c.IsNumber() {
				continue
			}
			if !found || c.Num > max {
				max, found = c.Num, true
			}
		}
		return max, found
	}
	return 0, false
}
