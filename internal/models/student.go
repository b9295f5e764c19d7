package models

import (
	"errors"
	"fmt"
)

// Score bounds for a subject entry.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// ErrScoreOutOfRange rejects subject scores outside [MinScore, MaxScore].
var ErrScoreOutOfRange = errors.New("score must be between 0 and 100")

// Student is one roster entry. The id is issued by the roster service and
// never changes; there is no rename operation for the name.
type Student struct {
	ID       int
	Name     string
	Subjects map[string]float64
}

// NewStudent builds a fresh student under an id issued by the caller.
func NewStudent(id int, name string) *Student {
	return &Student{
		ID:       id,
		Name:     name,
		Subjects: make(map[string]float64),
	}
}

// AddOrUpdateSubject inserts or overwrites one subject score. An
// out-of-range score returns ErrScoreOutOfRange and leaves the map with
// its previous contents.
func (s *Student) AddOrUpdateSubject(subject string, score float64) error {
	// NaN must fail the range check too, so test for acceptance.
	if !(score >= MinScore && score <= MaxScore) {
		return fmt.Errorf("%w, got %v", ErrScoreOutOfRange, score)
	}
	if s.Subjects == nil {
		s.Subjects = make(map[string]float64)
	}
	s.Subjects[subject] = score
	return nil
}

// Average returns the arithmetic mean of all subject scores, or 0 for a
// student with no subjects. No rounding is applied; two-decimal display
// is the caller's concern.
func (s *Student) Average() float64 {
	if len(s.Subjects) == 0 {
		return 0
	}
	var total float64
	for _, score := range s.Subjects {
		total += score
	}
	return total / float64(len(s.Subjects))
}

// Grade returns the letter band for the student's current average.
func (s *Student) Grade() Grade {
	return GradeForAverage(s.Average())
}
