// Package migrations embeds the SQLite schema migrations into the binary,
// so the service can migrate without the SQL files on disk.
package migrations

import "embed"

// FS holds every *.sql migration at its root. Pass it to database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
