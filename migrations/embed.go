// Package migrations embeds the postgres schema migrations so that the
// binaries can apply them without shipping the directory.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
