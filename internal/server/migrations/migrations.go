// Package migrations embeds the PostgreSQL schema of the catalog server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
