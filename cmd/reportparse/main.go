// Command reportparse extracts the contents of a single report workbook and
// prints the result as JSON. It is a debugging aid for checking how a
// valuation or swap mark-to-market sheet parses without touching the
// database.
//
// Usage:
//
//	reportparse -type valuation 20241120/valuation.xls
//	reportparse -type trs 20241120/trs.xlsx
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"fundpulse/internal/dataprocessing"
)

func main() {
	reportType := flag.String("type", "valuation", "report type: valuation or trs")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: reportparse -type valuation|trs <file>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := run(*reportType, flag.Arg(0), logger, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "reportparse:", err)
		os.Exit(1)
	}
}

func run(reportType, path string, logger *slog.Logger, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var result interface{}
	switch reportType {
	case "valuation":
		result, err = dataprocessing.NewValuationExtractor(logger).Parse(data)
	case "trs":
		result, err = dataprocessing.NewTrsExtractor(logger).Parse(data)
	default:
		return fmt.Errorf("unknown report type %q", reportType)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
