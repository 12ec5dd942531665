package domain

// ValuationMetrics represents the normalized daily fund metrics extracted
// from one back-office valuation sheet. Numeric fields default to zero when
// their label cannot be located in the source workbook; a zero is therefore
// not distinguishable from a parse miss at the record level.
type ValuationMetrics struct {
	Date       string  `json:"date" db:"date"`
	NavTotal   float64 `json:"nav_total" db:"nav_total" validate:"min=0"`
	NavA       float64 `json:"nav_a" db:"nav_a" validate:"min=0"`
	NavB       float64 `json:"nav_b" db:"nav_b" validate:"min=0"`
	TotalAsset float64 `json:"total_asset_val" db:"total_asset_val"`
	Cash       float64 `json:"cash_balance" db:"cash_balance"`
}

// HasDate reports whether the extractor resolved a report date.
func (m ValuationMetrics) HasDate() bool {
	return m.Date != ""
}
