package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
	"github.com/SAP-F-2025/report-card-manager/internal/repositories"
	"github.com/SAP-F-2025/report-card-manager/internal/validator"
)

type rosterService struct {
	store     repositories.RosterStore
	validator *validator.Validator
	logger    *slog.Logger

	students []*models.Student
	nextID   int

	// mu guards students and nextID; the shutdown save can overlap a
	// menu action that is still writing scores.
	mu sync.RWMutex
}

// NewRosterService creates the roster service. The id counter starts at 1
// and only ever moves forward; deleted ids are not reissued.
func NewRosterService(store repositories.RosterStore, v *validator.Validator, logger *slog.Logger) RosterService {
	return &rosterService{
		store:     store,
		validator: v,
		logger:    logger,
		students:  make([]*models.Student, 0),
		nextID:    1,
	}
}

// ===== ROSTER OPERATIONS =====

// AddStudent enrolls a student under the next free id.
func (s *rosterService) AddStudent(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if verrs := s.validator.Validate(validator.AddStudentInput{Name: name}); len(verrs) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrValidationFailed, verrs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	student := models.NewStudent(s.nextID, name)
	s.students = append(s.students, student)
	s.nextID++

	s.logger.Info("Student added", "id", student.ID, "name", student.Name)
	return student.ID, nil
}

// FindStudent scans the roster in order and returns the match by id.
func (s *rosterService) FindStudent(ctx context.Context, id int) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// findLocked scans the roster in order. Callers hold mu.
func (s *rosterService) findLocked(id int) (*models.Student, error) {
	for _, student := range s.students {
		if student.ID == id {
			return student, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrStudentNotFound, id)
}

// UpdateScore writes one subject score for an enrolled student. An absent
// id fails with ErrStudentNotFound before the score is looked at. A score
// outside the grading scale wraps models.ErrScoreOutOfRange; any other
// rejected input wraps ErrValidationFailed.
func (s *rosterService) UpdateScore(ctx context.Context, id int, subject string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, err := s.findLocked(id)
	if err != nil {
		return err
	}

	if verrs := s.validator.Validate(validator.ScoreInput{Subject: subject, Score: score}); len(verrs) > 0 {
		s.logger.Warn("Score rejected", "id", id, "subject", subject, "score", score)
		if verrs.HasRule("score_range") {
			return fmt.Errorf("%w, got %v", models.ErrScoreOutOfRange, score)
		}
		return fmt.Errorf("%w: %s", ErrValidationFailed, verrs)
	}

	if err := student.AddOrUpdateSubject(subject, score); err != nil {
		s.logger.Warn("Score rejected", "id", id, "subject", subject, "score", score)
		return err
	}

	s.logger.Info("Score updated", "id", id, "subject", subject, "score", score)
	return nil
}

// ListStudents projects the roster in insertion order.
func (s *rosterService) ListStudents(ctx context.Context) []models.StudentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]models.StudentSummary, 0, len(s.students))
	for _, student := range s.students {
		summaries = append(summaries, student.Summary())
	}
	return summaries
}

// DeleteStudent removes one student; the others keep their relative order.
func (s *rosterService) DeleteStudent(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, student := range s.students {
		if student.ID == id {
			s.students = append(s.students[:i], s.students[i+1:]...)
			s.logger.Info("Student deleted", "id", id, "name", student.Name)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrStudentNotFound, id)
}

// ===== PERSISTENCE =====

// Snapshot returns the roster in its persisted shape, in order. The
// records are detached copies, safe to hold outside the lock.
func (s *rosterService) Snapshot(ctx context.Context) []models.StudentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.StudentRecord, 0, len(s.students))
	for _, student := range s.students {
		records = append(records, student.Record())
	}
	return records
}

// Save persists the full roster through the store. The file write runs
// on the detached snapshot, outside the lock.
func (s *rosterService) Save(ctx context.Context) error {
	records := s.Snapshot(ctx)
	if err := s.store.Save(ctx, records); err != nil {
		s.logger.Error("Failed to save roster", "path", s.store.Path(), "error", err)
		return fmt.Errorf("failed to save roster: %w", err)
	}

	s.logger.Info("Roster saved", "path", s.store.Path(), "students", len(records))
	return nil
}

// Load replaces the roster with the persisted snapshot and fast-forwards
// the id counter. On failure the previous in-memory state stays in place.
func (s *rosterService) Load(ctx context.Context) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load roster", "path", s.store.Path(), "error", err)
		return fmt.Errorf("failed to load roster: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]*models.Student, 0, len(records))
	nextID := s.nextID
	for _, rec := range records {
		student := models.StudentFromRecord(rec)
		students = append(students, student)
		if student.ID >= nextID {
			nextID = student.ID + 1
		}
	}

	s.students = students
	s.nextID = nextID

	s.logger.Info("Roster loaded", "path", s.store.Path(), "students", len(students))
	return nil
}
