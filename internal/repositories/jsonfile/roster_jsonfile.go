package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
	"github.com/SAP-F-2025/report-card-manager/internal/repositories"
)

type rosterStore struct {
	path   string
	logger *slog.Logger
}

// NewRosterStore builds a store keeping the whole roster in one JSON file
// at path.
func NewRosterStore(path string, logger *slog.Logger) repositories.RosterStore {
	return &rosterStore{path: path, logger: logger}
}

func (s *rosterStore) Path() string {
	return s.path
}

// Load reads and decodes the roster file. A missing file is the expected
// cold-start state. Records with a non-positive id or a blank name are
// skipped; a missing subjects object defaults to an empty map.
func (s *rosterStore) Load(ctx context.Context) ([]models.StudentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("Roster file not found, starting empty", "path", s.path)
			return []models.StudentRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read roster file %s: %w", s.path, err)
	}

	var records []models.StudentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w %s: %v", repositories.ErrMalformedRoster, s.path, err)
	}

	valid := make([]models.StudentRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID <= 0 || strings.TrimSpace(rec.Name) == "" {
			s.logger.Warn("Skipping invalid roster record", "id", rec.ID, "name", rec.Name)
			continue
		}
		if rec.Subjects == nil {
			rec.Subjects = make(map[string]float64)
		}
		valid = append(valid, rec)
	}

	s.logger.Info("Roster file loaded", "path", s.path, "records", len(valid))
	return valid, nil
}

// Save replaces the roster file with the given snapshot. The data is
// written to a uniquely named temp file in the destination directory and
// renamed into place, so a failed write never clobbers the previous
// snapshot.
func (s *rosterStore) Save(ctx context.Context, records []models.StudentRecord) error {
	if records == nil {
		records = []models.StudentRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf("%s.%s.tmp", filepath.Base(s.path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write roster file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace roster file %s: %w", s.path, err)
	}

	s.logger.Info("Roster file saved", "path", s.path, "records", len(records))
	return nil
}
