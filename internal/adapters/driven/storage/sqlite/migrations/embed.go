// Package migrations embeds the SQL schema migrations applied by the
// store at startup.
package migrations

import "embed"

// FS holds the versioned migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
