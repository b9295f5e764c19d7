package services

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
)

// Common service errors, matched by callers with errors.Is.
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrValidationFailed = errors.New("validation failed")
)

// RosterService owns the in-memory student collection and the id counter,
// and orchestrates persistence through the roster store.
type RosterService interface {
	// AddStudent enrolls a student under the next free id and returns it.
	AddStudent(ctx context.Context, name string) (int, error)

	// FindStudent returns the student with the given id, or an error
	// wrapping ErrStudentNotFound.
	FindStudent(ctx context.Context, id int) (*models.Student, error)

	// UpdateScore writes one subject score for the student with the given
	// id. An absent id wraps ErrStudentNotFound. An out-of-range score
	// wraps models.ErrScoreOutOfRange; any other rejected input wraps
	// ErrValidationFailed.
	UpdateScore(ctx context.Context, id int, subject string, score float64) error

	// ListStudents projects the roster, in insertion order, into listing rows.
	ListStudents(ctx context.Context) []models.StudentSummary

	// DeleteStudent removes the student with the given id. The relative
	// order of the remaining students is unchanged and the id is never
	// reissued.
	DeleteStudent(ctx context.Context, id int) error

	// Snapshot returns the roster in its persisted shape, in order.
	Snapshot(ctx context.Context) []models.StudentRecord

	// Save persists the current roster through the store.
	Save(ctx context.Context) error

	// Load replaces the roster with the persisted snapshot and fast-forwards
	// the id counter past every restored id. On failure the in-memory state
	// is left as it was.
	Load(ctx context.Context) error
}

// ExportService renders roster snapshots to spreadsheet workbooks.
type ExportService interface {
	// ExportRoster writes the current roster to an XLSX workbook at path.
	ExportRoster(ctx context.Context, path string) error
}
