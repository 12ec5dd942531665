package domain

// TrsPosition represents one aggregated swap position from a TRS
// mark-to-market report. A ticker that appears on several contract lines in
// the same report is merged into a single position by summing the monetary
// fields; AssetName is taken from the first line that established the ticker.
type TrsPosition struct {
	Ticker        string  `json:"ticker" db:"ticker" validate:"required"`
	AssetName     string  `json:"asset_name" db:"asset_name"`
	NotionalCost  float64 `json:"notional_cost" db:"notional_cost"`
	MarketValue   float64 `json:"market_value" db:"market_value"`
	PnLUnrealized float64 `json:"pnl_unrealized" db:"pnl_unrealized"`
}

// TrsReport is the full extraction result for one TRS workbook. Positions
// keep the order in which their tickers first appeared during the row scan.
// An empty Positions slice with an empty Date is the normal outcome for a
// workbook that has no recognizable mark-to-market sheet.
type TrsReport struct {
	Date      string        `json:"date"`
	Positions []TrsPosition `json:"positions"`
}

// SyncResult records the outcome of ingesting one report date during a
// storage sync run.
type SyncResult struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Sync result statuses.
const (
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)
