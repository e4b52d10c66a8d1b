package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Migration is one schema change, applied at most once.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full schema history of the invoice ledger. New
// changes append here with the next version number.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_invoices",
		SQL: `
			CREATE TABLE IF NOT EXISTS invoices (
				number      INTEGER PRIMARY KEY,
				client      TEXT NOT NULL,
				subtotal    TEXT NOT NULL,
				tax         TEXT NOT NULL,
				grand_total TEXT NOT NULL,
				due_date    TEXT NOT NULL,
				issued_at   DATETIME NOT NULL,
				html_path   TEXT NOT NULL,
				pdf         INTEGER NOT NULL DEFAULT 0
			);
		`,
	},
}

// Migrate applies all pending ledger migrations.
func (db *DB) Migrate() error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		db.logger.Info("Applied ledger migration",
			zap.Int("version", m.Version),
			zap.String("name", m.Name))
	}

	return nil
}

func (db *DB) appliedMigrations() (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
