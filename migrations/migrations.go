// Package migrations embeds the PostgreSQL schema applied by tern on startup.
package migrations

import "embed"

//go:embed *.sql
var MigrationFiles embed.FS
