// Package sqlite stores database snapshots as rows of one SQLite file.
//
// The file is <data_dir>/<store name>.db and the snapshots table is
// partitioned by collection (store_name), so several collections can share
// an instance. Each row keeps the image bytes, a revision id, the save time
// and the image size.
//
// The schema is versioned by the numbered .up.sql files in migrations/,
// applied in order on open. Each migration runs in a transaction with its
// schema_migrations row.
//
// The store uses modernc.org/sqlite through sqlx and opens the file in WAL
// mode with a busy timeout, so a CLI command and a running MCP server can
// share it.
package sqlite
