// Package migrations holds the versioned SQL schema applied by golang-migrate.
package migrations

import "embed"

// FS contains every up and down migration.
//
//go:embed *.sql
var FS embed.FS
