package validator

// AddStudentInput carries the fields for enrolling a new student.
type AddStudentInput struct {
	Name string `validate:"required,student_name"`
}

// ScoreInput carries one subject score write for an enrolled student.
type ScoreInput struct {
	Subject string  `validate:"required"`
	Score   float64 `validate:"score_range"`
}

// ExportRosterInput carries the target path for a workbook export.
type ExportRosterInput struct {
	Path string `validate:"required,xlsx_path"`
}
