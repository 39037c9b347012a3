// Package migrations embeds the goose SQL migrations of the service schema.
package migrations

import "embed"

// FS holds every *.sql migration, ordered by their numeric prefix.
//
//go:embed *.sql
var FS embed.FS
