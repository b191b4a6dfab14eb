// Package migrations carries the schema migration scripts compiled
// into the binary, so a fresh data directory can be initialised
// without any files on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
