package cache

// schemaSQL defines the SQLite schema for the manifest database.
// Tables:
//   - outputs: one row per generated file, keyed by its absolute path
const schemaSQL = `
CREATE TABLE IF NOT EXISTS outputs (
    output_path TEXT PRIMARY KEY,
    header_path TEXT NOT NULL,
    header_hash TEXT NOT NULL,
    config_hash TEXT NOT NULL,
    declarations INTEGER NOT NULL DEFAULT 0,
    generated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outputs_header ON outputs(header_path);
`

// initSchema creates the database tables and indexes if they don't exist.
func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
