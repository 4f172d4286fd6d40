// Package migrations embeds the schema for the orders and item_categories
// tables and applies it at startup.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresFS embed.FS

//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
