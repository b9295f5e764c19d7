package services

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/report-card-manager/internal/models"
	"github.com/SAP-F-2025/report-card-manager/internal/repositories/jsonfile"
	"github.com/SAP-F-2025/report-card-manager/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRosterAt(t *testing.T, path string) RosterService {
	t.Helper()
	store := jsonfile.NewRosterStore(path, testLogger())
	return NewRosterService(store, validator.New(), testLogger())
}

func newTestRoster(t *testing.T) RosterService {
	t.Helper()
	return newTestRosterAt(t, filepath.Join(t.TempDir(), "grades.json"))
}

func TestAddStudentAssignsSequentialIDs(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	for i, name := range []string{"Ada", "Grace", "Alan"} {
		id, err := roster.AddStudent(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, i+1, id)
	}
}

func TestAddStudentRejectsBlankNames(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t"} {
		_, err := roster.AddStudent(ctx, name)
		require.ErrorIs(t, err, ErrValidationFailed)
	}
	assert.Empty(t, roster.ListStudents(ctx))

	// Rejected names never consume an id.
	id, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestAddStudentTrimsName(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	id, err := roster.AddStudent(ctx, "  Ada  ")
	require.NoError(t, err)

	student, err := roster.FindStudent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", student.Name)
}

func TestFindStudentNotFound(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	_, err := roster.FindStudent(ctx, 42)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestUpdateScoreFailureModes(t *testing.T) {
	tests := []struct {
		name    string
		id      int
		subject string
		score   float64
		wantErr error
	}{
		{name: "absent id", id: 99, subject: "Math", score: 50, wantErr: ErrStudentNotFound},
		{name: "absent id wins over bad score", id: 99, subject: "Math", score: 150, wantErr: ErrStudentNotFound},
		{name: "negative id", id: -1, subject: "Math", score: 50, wantErr: ErrStudentNotFound},
		{name: "score above scale", id: 1, subject: "Math", score: 100.5, wantErr: models.ErrScoreOutOfRange},
		{name: "negative score", id: 1, subject: "Math", score: -3, wantErr: models.ErrScoreOutOfRange},
		{name: "not a number score", id: 1, subject: "Math", score: math.NaN(), wantErr: models.ErrScoreOutOfRange},
		{name: "empty subject", id: 1, subject: "", score: 50, wantErr: ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := newTestRoster(t)
			ctx := context.Background()

			id, err := roster.AddStudent(ctx, "Ada")
			require.NoError(t, err)
			require.Equal(t, 1, id)

			err = roster.UpdateScore(ctx, tt.id, tt.subject, tt.score)
			require.ErrorIs(t, err, tt.wantErr)

			// Failed writes leave the roster untouched.
			student, err := roster.FindStudent(ctx, id)
			require.NoError(t, err)
			assert.Empty(t, student.Subjects)
		})
	}
}

func TestUpdateScoreFailuresAreDistinct(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	id, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)

	notFound := roster.UpdateScore(ctx, id+1, "Math", 50)
	outOfRange := roster.UpdateScore(ctx, id, "Math", 150)
	blankSubject := roster.UpdateScore(ctx, id, "", 50)

	require.ErrorIs(t, notFound, ErrStudentNotFound)
	require.NotErrorIs(t, notFound, models.ErrScoreOutOfRange)
	require.ErrorIs(t, outOfRange, models.ErrScoreOutOfRange)
	require.NotErrorIs(t, outOfRange, ErrStudentNotFound)
	require.ErrorIs(t, blankSubject, ErrValidationFailed)
	require.NotErrorIs(t, blankSubject, models.ErrScoreOutOfRange)
}

func TestUpdateScoreOverwritesSubject(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	id, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)

	require.NoError(t, roster.UpdateScore(ctx, id, "Math", 60))
	require.NoError(t, roster.UpdateScore(ctx, id, "Math", 95))

	student, err := roster.FindStudent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Math": 95}, student.Subjects)
}

func TestDeleteStudentKeepsOrderAndNeverReusesIDs(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	for _, name := range []string{"Ada", "Grace", "Alan"} {
		_, err := roster.AddStudent(ctx, name)
		require.NoError(t, err)
	}

	require.NoError(t, roster.DeleteStudent(ctx, 2))

	listed := roster.ListStudents(ctx)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].ID)
	assert.Equal(t, 3, listed[1].ID)

	// The freed id is not reissued.
	id, err := roster.AddStudent(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	err = roster.DeleteStudent(ctx, 2)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestListStudentsProjection(t *testing.T) {
	roster := newTestRoster(t)
	ctx := context.Background()

	assert.Empty(t, roster.ListStudents(ctx))

	adaID, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)
	require.NoError(t, roster.UpdateScore(ctx, adaID, "Math", 95))
	require.NoError(t, roster.UpdateScore(ctx, adaID, "History", 70))

	_, err = roster.AddStudent(ctx, "Grace")
	require.NoError(t, err)

	listed := roster.ListStudents(ctx)
	require.Len(t, listed, 2)

	assert.Equal(t, "Ada", listed[0].Name)
	assert.InDelta(t, 82.5, listed[0].Average, 1e-9)
	assert.Equal(t, models.GradeB, listed[0].Grade)

	assert.Equal(t, "Grace", listed[1].Name)
	assert.Zero(t, listed[1].Average)
	assert.Equal(t, models.GradeFail, listed[1].Grade)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	ctx := context.Background()

	roster := newTestRosterAt(t, path)
	adaID, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)
	require.NoError(t, roster.UpdateScore(ctx, adaID, "Math", 95))
	_, err = roster.AddStudent(ctx, "Grace")
	require.NoError(t, err)
	require.NoError(t, roster.Save(ctx))

	reloaded := newTestRosterAt(t, path)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, roster.Snapshot(ctx), reloaded.Snapshot(ctx))

	// The counter lands past every restored id.
	id, err := reloaded.AddStudent(ctx, "Alan")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestSaveConcurrentWithScoreUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	ctx := context.Background()

	roster := newTestRosterAt(t, path)
	id, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)

	// A shutdown save can overlap an in-flight score write.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			assert.NoError(t, roster.UpdateScore(ctx, id, "Math", float64(i%101)))
		}
	}()
	for i := 0; i < 100; i++ {
		assert.NoError(t, roster.Save(ctx))
	}
	<-done

	require.NoError(t, roster.Save(ctx))

	reloaded := newTestRosterAt(t, path)
	require.NoError(t, reloaded.Load(ctx))
	student, err := reloaded.FindStudent(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, student.Subjects, "Math")
}

func TestLoadFastForwardsCounterPastGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	ctx := context.Background()

	store := jsonfile.NewRosterStore(path, testLogger())
	require.NoError(t, store.Save(ctx, []models.StudentRecord{
		{ID: 7, Name: "Ada", Subjects: map[string]float64{}},
		{ID: 3, Name: "Grace", Subjects: map[string]float64{}},
	}))

	roster := newTestRosterAt(t, path)
	require.NoError(t, roster.Load(ctx))

	id, err := roster.AddStudent(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestLoadMissingFileYieldsEmptyRoster(t *testing.T) {
	roster := newTestRoster(t)

	require.NoError(t, roster.Load(context.Background()))
	assert.Empty(t, roster.ListStudents(context.Background()))
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	ctx := context.Background()

	roster := newTestRosterAt(t, path)
	_, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	require.Error(t, roster.Load(ctx))

	listed := roster.ListStudents(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ada", listed[0].Name)

	// The counter is untouched by the failed load.
	id, err := roster.AddStudent(ctx, "Grace")
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestRosterLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grades.json")
	ctx := context.Background()

	roster := newTestRosterAt(t, path)

	adaID, err := roster.AddStudent(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, 1, adaID)

	graceID, err := roster.AddStudent(ctx, "Grace")
	require.NoError(t, err)
	assert.Equal(t, 2, graceID)

	require.NoError(t, roster.UpdateScore(ctx, adaID, "Math", 95))
	require.NoError(t, roster.UpdateScore(ctx, adaID, "History", 70))
	require.NoError(t, roster.UpdateScore(ctx, graceID, "Math", 40))

	ada, err := roster.FindStudent(ctx, adaID)
	require.NoError(t, err)
	assert.InDelta(t, 82.5, ada.Average(), 1e-9)
	assert.Equal(t, models.GradeB, ada.Grade())

	grace, err := roster.FindStudent(ctx, graceID)
	require.NoError(t, err)
	assert.Equal(t, models.GradeFail, grace.Grade())

	require.NoError(t, roster.DeleteStudent(ctx, adaID))

	listed := roster.ListStudents(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, "Grace", listed[0].Name)

	require.NoError(t, roster.Save(ctx))

	reloaded := newTestRosterAt(t, path)
	require.NoError(t, reloaded.Load(ctx))

	listed = reloaded.ListStudents(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, 2, listed[0].ID)
	assert.Equal(t, "Grace", listed[0].Name)

	grace, err = reloaded.FindStudent(ctx, graceID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Math": 40}, grace.Subjects)

	newID, err := reloaded.AddStudent(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, 3, newID)
}
