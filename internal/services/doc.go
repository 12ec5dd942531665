// Package services implements the business logic layer between HTTP handlers
// and storage. Services receive their dependencies through constructors, take
// a context.Context on every operation, and log through an injected
// *slog.Logger so handlers and tests can control output.
//
// The layer covers four concerns:
//
//   - ingest: parse an uploaded report workbook and persist its contents
//   - sync: walk the storage bucket and ingest every dated report folder
//   - data: read access for metrics and position history
//   - assistant: Gemini-backed chat grounded in the latest fund data
package services
