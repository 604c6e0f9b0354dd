// Package migrations embeds the schema for each supported SQL dialect.
package migrations

import _ "embed"

// SQLite is the schema applied to sqlite databases.
//
//go:embed sqlite.sql
var SQLite string

// Postgres is the schema applied to postgres databases.
//
//go:embed postgres.sql
var Postgres string
