// Package migrations holds the goose migrations for the PostgreSQL ledger.
package migrations

import "embed"

// FS contains every migration file in this directory
//
//go:embed *.sql
var FS embed.FS
