package dataprocessing

import (
	"log/slog"
	"strings"

	"fundpulse/internal/workbook"
	"fundpulse/pkg/contracts/domain"
)

// trsDateRowWindow bounds the date scan to the top of the sheet. The report
// date sits in the title block; scanning further risks picking up trade
// dates inside the data table.
const trsDateRowWindow = 10

// trsColumns holds the resolved column indices of the mark-to-market table.
type trsColumns struct {
	ticker        int
	name          int
	notional      int
	marketValue   int
	contractValue int
	settlement    int
}

// TrsExtractor extracts per-ticker position records from a prime-broker TRS
// mark-to-market report. Stateless and safe for concurrent use.
type TrsExtractor struct {
	logger *slog.Logger
}

// NewTrsExtractor creates a TRS extractor. A nil logger falls back to
// slog.Default().
func NewTrsExtractor(logger *slog.Logger) *TrsExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrsExtractor{logger: logger.With(slog.String("component", "trs_extractor"))}
}

// Parse decodes workbook bytes and extracts the report date plus aggregated
// positions. A workbook without the mark-to-market sheet, without a header
// row, or with any required column missing yields an empty position list
// rather than an error; absence of data is a valid outcome. The error
// return covers only bytes that do not decode as a spreadsheet.
func (e *TrsExtractor) Parse(b []byte) (domain.TrsReport, error) {
	report := domain.TrsReport{Positions: []domain.TrsPosition{}}

	wb, err := workbook.Decode(b)
	if err != nil {
		return report, err
	}

	sheet := wb.SheetNamed(trsSheetFragment)
	if sheet == nil {
		e.logger.Warn("mark-to-market sheet not found in TRS workbook",
			slog.String("fragment", trsSheetFragment))
		return report, nil
	}

	for i := 0; i < len(sheet.Rows) && i < trsDateRowWindow; i++ {
		if m := bareDateRe.FindString(sheet.JoinedRow(i)); m != "" {
			report.Date = m
			break
		}
	}

	headerIdx := e.findHeaderRow(sheet)
	if headerIdx == -1 {
		e.logger.Warn("TRS header row not found, returning empty positions")
		return report, nil
	}

	cols, ok := e.resolveColumns(sheet.Rows[headerIdx])
	if !ok {
		// Partial extraction is never attempted: a misaligned column would
		// silently ship wrong figures.
		return report, nil
	}

	report.Positions = e.scanRows(sheet, headerIdx, cols)
	return report, nil
}

// findHeaderRow returns the index of the first row containing a ticker
// column label in any cell, or -1.
func (e *TrsExtractor) findHeaderRow(sheet *workbook.Sheet) int {
	for i, row := range sheet.Rows {
		for _, c := range row {
			text := c.Text()
			if strings.Contains(text, labelTicker) || strings.Contains(text, labelTickerAlt) {
				return i
			}
		}
	}
	return -1
}

// resolveColumns locates all six required columns in the header row. All
// must resolve for extraction to proceed.
func (e *TrsExtractor) resolveColumns(header []workbook.Cell) (trsColumns, bool) {
	cols := trsColumns{
		ticker:        findColumn(header, labelTicker, labelTickerAlt),
		name:          findColumn(header, labelAssetName, labelAssetNameAlt),
		notional:      findColumn(header, labelNotional),
		marketValue:   findColumn(header, labelMarketValue),
		contractValue: findColumn(header, labelContractValue),
		settlement:    findColumn(header, labelSettlement),
	}

	missing := []string{}
	for _, c := range []struct {
		name string
		idx  int
	}{
		{"ticker", cols.ticker},
		{"asset_name", cols.name},
		{"notional", cols.notional},
		{"market_value", cols.marketValue},
		{"contract_value", cols.contractValue},
		{"settlement", cols.settlement},
	} {
		if c.idx == -1 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		e.logger.Warn("required TRS columns missing, returning empty positions",
			slog.Any("missing", missing))
		return cols, false
	}
	return cols, true
}

// scanRows streams data rows below the header into per-ticker aggregates,
// preserving first-seen ticker order.
func (e *TrsExtractor) scanRows(sheet *workbook.Sheet, headerIdx int, cols trsColumns) []domain.TrsPosition {
	byTicker := make(map[string]*domain.TrsPosition)
	order := []string{}

	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		tickerCell := sheet.Cell(i, cols.ticker)
		// Subtotal and footer rows put a number or blank where the ticker
		// would be; only a non-empty string cell counts as a data row.
		if !tickerCell.IsString() {
			continue
		}
		ticker := strings.TrimSpace(tickerCell.Str)
		if ticker == "" {
			continue
		}

		contractValue := sheet.Cell(i, cols.contractValue).Float()
		settlement := sheet.Cell(i, cols.settlement).Float()

		pos, seen := byTicker[ticker]
		if !seen {
			pos = &domain.TrsPosition{
				Ticker:    ticker,
				AssetName: strings.TrimSpace(sheet.Cell(i, cols.name).Text()),
			}
			byTicker[ticker] = pos
			order = append(order, ticker)
		}

		pos.NotionalCost += sheet.Cell(i, cols.notional).Float()
		pos.MarketValue += sheet.Cell(i, cols.marketValue).Float()
		// Settlement already carries its sign (negative for a cost), so the
		// row's PnL contribution is the algebraic sum.
		pos.PnLUnrealized += contractValue + settlement
	}

	positions := make([]domain.TrsPosition, 0, len(order))
	for _, t := range order {
		positions = append(positions, *byTicker[t])
	}
	return positions
}

// findColumn returns the index of the first header cell containing any of
// the given label fragments, or -1.
func findColumn(header []workbook.Cell, labels ...string) int {
	for i, c := range header {
		text := c.Text()
		if text == "" {
			continue
		}
		for _, label := range labels {
			if strings.Contains(text, label) {
				return i
			}
		}
	}
	return -1
}
