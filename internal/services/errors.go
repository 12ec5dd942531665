package services

import "errors"

// Service errors
var (
	// Ingest errors
	ErrReportDateless = errors.New("report contains no date")

	// Data errors
	ErrNoMetricsFound   = errors.New("no metrics found")
	ErrNoPositionsFound = errors.New("no positions found")

	// Assistant errors
	ErrNoUserMessage = errors.New("conversation contains no user message")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
