package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
	"github.com/SAP-F-2025/report-card-manager/internal/validator"
)

// Workbook sheet names.
const (
	studentsSheet = "Students"
	scoresSheet   = "Scores"
)

type exportService struct {
	roster    RosterService
	validator *validator.Validator
	logger    *slog.Logger
}

// NewExportService creates the spreadsheet export service.
func NewExportService(roster RosterService, v *validator.Validator, logger *slog.Logger) ExportService {
	return &exportService{
		roster:    roster,
		validator: v,
		logger:    logger,
	}
}

// ExportRoster writes the current roster to an XLSX workbook at path: one
// summary row per student plus a long-format sheet of every score. An
// empty roster exports headers only.
func (s *exportService) ExportRoster(ctx context.Context, path string) error {
	if verrs := s.validator.Validate(validator.ExportRosterInput{Path: path}); len(verrs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidationFailed, verrs)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", studentsSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if _, err := f.NewSheet(scoresSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	header := []interface{}{"ID", "Name", "Subjects", "Average", "Grade"}
	if err := f.SetSheetRow(studentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write workbook header: %w", err)
	}
	scoresHeader := []interface{}{"Student ID", "Student Name", "Subject", "Score"}
	if err := f.SetSheetRow(scoresSheet, "A1", &scoresHeader); err != nil {
		return fmt.Errorf("failed to write workbook header: %w", err)
	}

	records := s.roster.Snapshot(ctx)
	scoreRow := 2
	for i, rec := range records {
		student := models.StudentFromRecord(rec)

		summary := []interface{}{student.ID, student.Name, len(student.Subjects), student.Average(), string(student.Grade())}
		if err := f.SetSheetRow(studentsSheet, fmt.Sprintf("A%d", i+2), &summary); err != nil {
			return fmt.Errorf("failed to write student row: %w", err)
		}

		for _, subject := range student.SubjectNames() {
			score := []interface{}{student.ID, student.Name, subject, student.Subjects[subject]}
			if err := f.SetSheetRow(scoresSheet, fmt.Sprintf("A%d", scoreRow), &score); err != nil {
				return fmt.Errorf("failed to write score row: %w", err)
			}
			scoreRow++
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}

	s.logger.Info("Roster exported", "path", path, "students", len(records))
	return nil
}
