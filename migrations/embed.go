package migrations

import "embed"

// Files holds the cycle log schema. Migrations are forward-only and run in
// version order when the database is opened.
//
//go:embed *.sql
var Files embed.FS
