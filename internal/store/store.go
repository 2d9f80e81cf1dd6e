// Package store persists the studio in four independent SQLite slots, one
// JSON document per collection.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	_ "modernc.org/sqlite"
)

// Slot keys, shared with the web client's local storage
const (
	KeyProjects  = "awaree_projects"
	KeyEvents    = "awaree_events"
	KeyCreations = "awaree_creations"
	KeyTagColors = "awaree_tag_colors"
)

// Keys lists every slot
var Keys = []string{KeyProjects, KeyEvents, KeyCreations, KeyTagColors}

// Store wraps the SQLite database connection
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// DefaultPath returns the default database path (~/.awaree/studio.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".awaree", "studio.db"), nil
}

// Open opens or creates the SQLite database
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time keeps sqlite from reporting busy
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, log: logger.WithFields(logger.F("component", "store"))}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// OpenDefault opens the database at the default path
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	s.log.Debug("slot saved", logger.F("slot", key), logger.F("bytes", len(data)))
	return nil
}

// loadSlot decodes a slot into v. A missing slot leaves v untouched and a
// slot that cannot be read or decoded is logged and reported as false.
func (s *Store) loadSlot(ctx context.Context, key string, v interface{}) bool {
	data, ok, err := s.get(ctx, key)
	if err != nil {
		s.log.Warn("slot unreadable, using default", logger.F("slot", key), logger.F("err", err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("slot corrupt, using default", logger.F("slot", key), logger.F("err", err))
		return false
	}
	return true
}

// Load reads every slot. Missing or unreadable slots fall back to their
// default so the studio always starts.
func (s *Store) Load(ctx context.Context) studio.State {
	state := studio.EmptyState()

	var projects []model.Project
	if s.loadSlot(ctx, KeyProjects, &projects) && projects != nil {
		for i := range projects {
			projects[i].Normalize()
		}
		state.Projects = projects
	}

	var events []model.AppEvent
	if s.loadSlot(ctx, KeyEvents, &events) && events != nil {
		state.Events = events
	}

	var creations []model.Creation
	if s.loadSlot(ctx, KeyCreations, &creations) && creations != nil {
		state.Creations = creations
	}

	var colors model.TagColors
	if s.loadSlot(ctx, KeyTagColors, &colors) && colors != nil {
		state.TagColors = colors
	}

	return state
}

// SaveProjects overwrites the projects slot
func (s *Store) SaveProjects(ctx context.Context, projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}
	return s.put(ctx, KeyProjects, projects)
}

// SaveEvents overwrites the events slot
func (s *Store) SaveEvents(ctx context.Context, events []model.AppEvent) error {
	if events == nil {
		events = []model.AppEvent{}
	}
	return s.put(ctx, KeyEvents, events)
}

// SaveCreations overwrites the creations slot
func (s *Store) SaveCreations(ctx context.Context, creations []model.Creation) error {
	if creations == nil {
		creations = []model.Creation{}
	}
	return s.put(ctx, KeyCreations, creations)
}

// SaveTagColors overwrites the tag colors slot
func (s *Store) SaveTagColors(ctx context.Context, colors model.TagColors) error {
	if colors == nil {
		colors = model.TagColors{}
	}
	return s.put(ctx, KeyTagColors, colors)
}

// Save writes the collections of after that differ from before. Each slot is
// written on its own; a failure leaves the slots already written in place.
func (s *Store) Save(ctx context.Context, before, after studio.State) error {
	if changed(before.Projects, after.Projects) {
		if err := s.SaveProjects(ctx, after.Projects); err != nil {
			return err
		}
	}
	if changed(before.Events, after.Events) {
		if err := s.SaveEvents(ctx, after.Events); err != nil {
			return err
		}
	}
	if changed(before.Creations, after.Creations) {
		if err := s.SaveCreations(ctx, after.Creations); err != nil {
			return err
		}
	}
	if changed(before.TagColors, after.TagColors) {
		if err := s.SaveTagColors(ctx, after.TagColors); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every slot
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots`); err != nil {
		return fmt.Errorf("failed to clear slots: %w", err)
	}
	return nil
}

// SlotInfo describes a stored slot
type SlotInfo struct {
	Key       string
	Bytes     int
	UpdatedAt string
}

// Slots lists the stored slots
func (s *Store) Slots(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, length(value), COALESCE(updated_at, '') FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Key, &info.Bytes, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// changed compares two collections by their stored form
func changed(before, after interface{}) bool {
	a, errA := json.Marshal(before)
	b, errB := json.Marshal(after)
	if errA != nil || errB != nil {
		return true
	}
	return string(a) != string(b)
}
