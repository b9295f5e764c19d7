package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
	"github.com/SAP-F-2025/report-card-manager/internal/services"
)

const menuText = `
--- Student Report Card Manager ---
1) Add Student
2) Update Scores (by ID)
3) View Report (by ID)
4) Delete Student
5) List all students
6) Save now
7) Exit
8) Export to Excel
`

// MenuHandler drives the roster through a numbered menu read from in and
// written to out. Every user mistake is a reprompt or an aborted action,
// never a crash.
type MenuHandler struct {
	roster services.RosterService
	export services.ExportService
	logger *slog.Logger

	in  *bufio.Scanner
	out io.Writer

	dataPath   string
	exportPath string
}

// NewMenuHandler creates the menu over the given streams. dataPath and
// exportPath are only used in user-facing messages and prompts.
func NewMenuHandler(roster services.RosterService, export services.ExportService, logger *slog.Logger, in io.Reader, out io.Writer, dataPath, exportPath string) *MenuHandler {
	return &MenuHandler{
		roster:     roster,
		export:     export,
		logger:     logger,
		in:         bufio.NewScanner(in),
		out:        out,
		dataPath:   dataPath,
		exportPath: exportPath,
	}
}

// Run loops over the menu until the user exits, input ends, or the
// context is canceled. The caller owns the final save.
func (h *MenuHandler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(h.out, menuText)
		choice, ok := h.prompt("Choose an option: ")
		if !ok {
			// End of input behaves like choosing Exit.
			fmt.Fprintln(h.out, "Saving and exiting...")
			return h.in.Err()
		}

		switch choice {
		case "1":
			h.addStudent(ctx)
		case "2":
			h.updateScores(ctx)
		case "3":
			h.viewReport(ctx)
		case "4":
			h.deleteStudent(ctx)
		case "5":
			h.listStudents(ctx)
		case "6":
			h.saveNow(ctx)
		case "7":
			fmt.Fprintln(h.out, "Saving and exiting...")
			return nil
		case "8":
			h.exportRoster(ctx)
		default:
			fmt.Fprintln(h.out, "Invalid choice. Enter 1-8.")
		}
	}
}

// ===== MENU ACTIONS =====

func (h *MenuHandler) addStudent(ctx context.Context) {
	name, ok := h.prompt("Student name: ")
	if !ok || name == "" {
		fmt.Fprintln(h.out, "Name cannot be empty.")
		return
	}

	id, err := h.roster.AddStudent(ctx, name)
	if err != nil {
		h.reportError(err)
		return
	}
	fmt.Fprintf(h.out, "Added '%s' with ID %d\n", name, id)

	for {
		subject, ok := h.prompt("Enter subject (or 'done'): ")
		if !ok {
			return
		}
		if low := strings.ToLower(subject); low == "done" || low == "d" || low == "" {
			return
		}

		score, ok := h.promptScore(fmt.Sprintf("Marks for %s (0-100): ", subject))
		if !ok {
			fmt.Fprintln(h.out, "Invalid score.")
			continue
		}
		if err := h.roster.UpdateScore(ctx, id, subject, score); err != nil {
			h.reportError(err)
			continue
		}
		fmt.Fprintf(h.out, "%s - %s: %v\n", name, subject, score)
	}
}

func (h *MenuHandler) updateScores(ctx context.Context) {
	id, ok := h.promptInt("Enter student ID: ")
	if !ok {
		fmt.Fprintln(h.out, "Invalid ID.")
		return
	}

	subject, ok := h.prompt("Subject name: ")
	if !ok || subject == "" {
		fmt.Fprintln(h.out, "Subject cannot be empty.")
		return
	}

	score, ok := h.promptScore("Enter score (0-100): ")
	if !ok {
		fmt.Fprintln(h.out, "Invalid score.")
		return
	}

	if err := h.roster.UpdateScore(ctx, id, subject, score); err != nil {
		h.reportError(err)
		return
	}
	fmt.Fprintf(h.out, "Updated %s: %v for student ID %d\n", subject, score, id)
}

func (h *MenuHandler) viewReport(ctx context.Context) {
	id, ok := h.promptInt("Enter student ID: ")
	if !ok {
		fmt.Fprintln(h.out, "Invalid ID.")
		return
	}

	student, err := h.roster.FindStudent(ctx, id)
	if err != nil {
		h.reportError(err)
		return
	}

	fmt.Fprintln(h.out, "\n--- Report Card ---")
	fmt.Fprintf(h.out, "ID: %d\n", student.ID)
	fmt.Fprintf(h.out, "Name: %s\n", student.Name)
	if len(student.Subjects) == 0 {
		fmt.Fprintln(h.out, "  (no subjects entered)")
	} else {
		for _, subject := range student.SubjectNames() {
			fmt.Fprintf(h.out, "  %s: %v\n", subject, student.Subjects[subject])
		}
	}
	fmt.Fprintf(h.out, "Average: %.2f\n", student.Average())
	fmt.Fprintf(h.out, "Grade: %s\n", student.Grade())
	fmt.Fprintln(h.out, "--------------------")
}

func (h *MenuHandler) deleteStudent(ctx context.Context) {
	id, ok := h.promptInt("Enter student ID to delete: ")
	if !ok {
		fmt.Fprintln(h.out, "Invalid ID.")
		return
	}

	student, err := h.roster.FindStudent(ctx, id)
	if err != nil {
		h.reportError(err)
		return
	}
	if err := h.roster.DeleteStudent(ctx, id); err != nil {
		h.reportError(err)
		return
	}
	fmt.Fprintf(h.out, "Deleted %s (ID %d)\n", student.Name, student.ID)
}

func (h *MenuHandler) listStudents(ctx context.Context) {
	summaries := h.roster.ListStudents(ctx)
	if len(summaries) == 0 {
		fmt.Fprintln(h.out, "No students yet.")
		return
	}

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tAverage\tGrade")
	for _, row := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", row.ID, row.Name, row.Average, row.Grade)
	}
	if err := w.Flush(); err != nil {
		h.logger.Error("Failed to render student table", "error", err)
	}
}

func (h *MenuHandler) saveNow(ctx context.Context) {
	if err := h.roster.Save(ctx); err != nil {
		fmt.Fprintf(h.out, "Failed to save: %v\n", err)
		return
	}
	fmt.Fprintf(h.out, "Data saved to %s\n", h.dataPath)
}

func (h *MenuHandler) exportRoster(ctx context.Context) {
	path, ok := h.prompt(fmt.Sprintf("Workbook path [%s]: ", h.exportPath))
	if !ok {
		return
	}
	if path == "" {
		path = h.exportPath
	}

	if err := h.export.ExportRoster(ctx, path); err != nil {
		h.reportError(err)
		return
	}
	fmt.Fprintf(h.out, "Roster exported to %s\n", path)
}

// ===== INPUT & ERROR HELPERS =====

// prompt reads one trimmed line; ok is false when input has ended.
func (h *MenuHandler) prompt(label string) (string, bool) {
	fmt.Fprint(h.out, label)
	if !h.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(h.in.Text()), true
}

// promptInt reads an integer; empty or non-numeric input is not ok.
func (h *MenuHandler) promptInt(label string) (int, bool) {
	text, ok := h.prompt(label)
	if !ok || text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// promptScore reads a score value; empty or non-numeric input is not ok.
func (h *MenuHandler) promptScore(label string) (float64, bool) {
	text, ok := h.prompt(label)
	if !ok || text == "" {
		return 0, false
	}
	score, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return score, true
}

// reportError maps service failures onto user-facing messages.
func (h *MenuHandler) reportError(err error) {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		fmt.Fprintln(h.out, "Student not found.")
	case errors.Is(err, models.ErrScoreOutOfRange):
		fmt.Fprintln(h.out, "Score must be between 0 and 100.")
	case errors.Is(err, services.ErrValidationFailed):
		fmt.Fprintf(h.out, "Invalid input: %v\n", err)
	default:
		h.logger.Error("Unexpected service error", "error", err)
		fmt.Fprintf(h.out, "Operation failed: %v\n", err)
	}
}
