package migrations

import "embed"

// PostgresFS holds the embedded PostgreSQL migration files, applied in
// lexical order.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the embedded ClickHouse migration files, applied in
// lexical order.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
