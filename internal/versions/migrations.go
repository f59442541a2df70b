package versions

import (
	"database/sql"
	"fmt"
)

// migrations is the ordered list of schema changes. Each entry runs at most
// once; applied versions are recorded in schema_migrations. Never edit an
// entry that has shipped, append a new one.
var migrations = []string{
	// v1: initial schema.
	`CREATE TABLE IF NOT EXISTS brochure_versions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brochure_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		action TEXT NOT NULL DEFAULT 'save',
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (brochure_id, tenant_id, version_number)
	);
	CREATE INDEX IF NOT EXISTS idx_brochure_versions_lookup
		ON brochure_versions (brochure_id, tenant_id, version_number DESC);`,
}

// migrate applies pending migrations in order inside transactions.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}
