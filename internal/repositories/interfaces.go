package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
)

// ErrMalformedRoster marks a roster file whose contents cannot be decoded.
// Callers match it with errors.Is.
var ErrMalformedRoster = errors.New("malformed roster file")

// RosterStore persists whole-roster snapshots. Implementations replace the
// full snapshot on save and read the full snapshot on load; there is no
// partial update path.
type RosterStore interface {
	// Load reads the persisted snapshot. A missing file is the cold-start
	// state and yields an empty slice with no error; decode failures wrap
	// ErrMalformedRoster and leave the caller's state untouched.
	Load(ctx context.Context) ([]models.StudentRecord, error)

	// Save writes the full snapshot, creating parent directories as needed
	// and replacing the destination atomically.
	Save(ctx context.Context, records []models.StudentRecord) error

	// Path reports the backing file location.
	Path() string
}
