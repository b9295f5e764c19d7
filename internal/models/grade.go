package models

// Grade is the letter band derived from a student's average score.
type Grade string

const (
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeFail Grade = "Fail"
)

// Band thresholds, checked top down; an exact boundary value lands in
// the higher band.
const (
	gradeAThreshold = 90.0
	gradeBThreshold = 75.0
	gradeCThreshold = 50.0
)

// GradeForAverage maps an average score onto its letter band.
func GradeForAverage(average float64) Grade {
	if average >= gradeAThreshold {
		return GradeA
	} else if average >= gradeBThreshold {
		return GradeB
	} else if average >= gradeCThreshold {
		return GradeC
	}
	return GradeFail
}
