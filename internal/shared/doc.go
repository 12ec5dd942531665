// Package shared holds utilities used across the codebase that belong to no
// specific domain or architectural layer.
//
// The testutil subpackage provides test helpers, currently an slog capture
// handler for asserting on structured log output. Code here must stay free
// of business logic and of dependencies on other internal packages.
package shared
