// Package dataprocessing extracts normalized fund records from the two
// recurring workbook layouts the fund receives each day.
//
// # Architecture
//
// The package contains two stateless extractors over a typed cell grid
// (internal/workbook):
//
// 1. ValuationExtractor: scans the first sheet of a back-office valuation
// sheet for bilingual labeled metrics (NAV variants, total assets, cash)
// 2. TrsExtractor: locates the mark-to-market sheet of a prime-broker TRS
// report, resolves its columns by header labels and aggregates contract
// lines into per-ticker positions
//
// # Usage
//
//	e := dataprocessing.NewValuationExtractor(logger)
//	metrics, err := e.Parse(workbookBytes)
//
// # Error Handling
//
// Report layouts drift release to release, so a missing label, sheet or
// column never fails a parse: the affected field keeps its zero value, or
// the whole TRS position list degrades to empty. The only returned error
// is a byte stream that does not decode as a spreadsheet at all. Every
// silent miss is logged at warn level so operators can tell a true zero
// from a parse miss.
package dataprocessing
