package store

import "fmt"

// migrate runs all database migrations
func (s *Store) migrate() error {
	migrations := []string{
		migrationCreateSlots,
		migrationJournalMode,
	}

	for i, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateSlots = `
CREATE TABLE IF NOT EXISTS slots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT
);
`

const migrationJournalMode = `PRAGMA journal_mode = WAL;`
