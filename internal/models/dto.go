package models

import "sort"

// StudentRecord is the persisted shape of one student: a flat
// {id, name, subjects} object inside the roster's JSON array.
type StudentRecord struct {
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Subjects map[string]float64 `json:"subjects"`
}

// StudentSummary is the read-only row used for roster listings.
type StudentSummary struct {
	ID      int
	Name    string
	Average float64
	Grade   Grade
}

// Record snapshots the student into its persisted shape. The subject map
// is copied so later mutations do not leak into a pending write.
func (s *Student) Record() StudentRecord {
	subjects := make(map[string]float64, len(s.Subjects))
	for subject, score := range s.Subjects {
		subjects[subject] = score
	}
	return StudentRecord{
		ID:       s.ID,
		Name:     s.Name,
		Subjects: subjects,
	}
}

// StudentFromRecord restores a student from its persisted shape, keeping
// the externally issued id. A missing subjects object restores as an
// empty map.
func StudentFromRecord(rec StudentRecord) *Student {
	subjects := make(map[string]float64, len(rec.Subjects))
	for subject, score := range rec.Subjects {
		subjects[subject] = score
	}
	return &Student{
		ID:       rec.ID,
		Name:     rec.Name,
		Subjects: subjects,
	}
}

// Summary projects the student into its listing row.
func (s *Student) Summary() StudentSummary {
	return StudentSummary{
		ID:      s.ID,
		Name:    s.Name,
		Average: s.Average(),
		Grade:   s.Grade(),
	}
}

// SubjectNames returns the student's subjects in sorted order for
// deterministic display and export.
func (s *Student) SubjectNames() []string {
	names := make([]string, 0, len(s.Subjects))
	for subject := range s.Subjects {
		names = append(names, subject)
	}
	sort.Strings(names)
	return names
}
