package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/awaree/internal/studio"
)

// EncodeBackup writes every collection of state as indented JSON
func EncodeBackup(state studio.State, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(studio.NewBackup(state, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// BackupFileName returns the backup file name for the day of now
func BackupFileName(now time.Time) string {
	return "awaree_backup_" + now.Format("2006-01-02") + ".json"
}

// decodeBackup parses a backup and validates each collection it carries.
// Keys that are absent or null stay nil.
func decodeBackup(content []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(content, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	if b.Projects != nil {
		for _, p := range *b.Projects {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
			}
		}
	}
	if b.Events != nil {
		for _, ev := range *b.Events {
			if err := ev.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
			}
		}
	}
	if b.Creations != nil {
		for _, c := range *b.Creations {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
			}
		}
	}
	return &b, nil
}
