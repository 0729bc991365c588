package migrations

import "embed"

// FS holds the SQLite schema for run storage.
//
//go:embed *.sql
var FS embed.FS
