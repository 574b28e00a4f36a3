package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
)

func newTestClassService(userID string, data model.AppData) (*ClassService, *StateService) {
	states := newTestStateService(userID, data)
	return NewClassService(states, zerolog.Nop()), states
}

func seededData() model.AppData {
	return model.AppData{
		Classes: []model.SchoolClass{
			{
				ID:   "c1",
				Name: "7A",
				Students: []model.Student{
					{ID: "s1", Name: "Ana Silva"},
				},
				Assessments: []model.Assessment{
					{ID: "a1", Name: "Teste 1"},
				},
				Lessons: []model.Lesson{
					{ID: "l1", Date: "2025-01-06", Time: "09:00", IsGenerated: true},
				},
			},
		},
	}
}

func TestClassService_CreateAndGet(t *testing.T) {
	svc, _ := newTestClassService("u1", model.AppData{Classes: []model.SchoolClass{}})
	ctx := context.Background()

	created, err := svc.CreateClass(ctx, "u1", "8B", 45)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 45, created.DefaultDuration)

	got, err := svc.GetClass(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "8B", got.Name)
	assert.NotNil(t, got.Students)

	classes, err := svc.ListClasses(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestClassService_GetClassNotFound(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())

	_, err := svc.GetClass(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestClassService_DeleteClass(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())
	ctx := context.Background()

	require.NoError(t, svc.DeleteClass(ctx, "u1", "c1"))
	_, err := svc.GetClass(ctx, "u1", "c1")
	assert.ErrorIs(t, err, ErrClassNotFound)

	assert.ErrorIs(t, svc.DeleteClass(ctx, "u1", "c1"), ErrClassNotFound)
}

func TestClassService_RosterLifecycle(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())
	ctx := context.Background()

	added, err := svc.AddStudent(ctx, "u1", "c1", model.Student{Name: "Bruno Costa"})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	added.Notes = "apoio a matemática"
	updated, err := svc.UpdateStudent(ctx, "u1", "c1", *added)
	require.NoError(t, err)
	assert.Equal(t, "apoio a matemática", updated.Notes)

	require.NoError(t, svc.RemoveStudent(ctx, "u1", "c1", added.ID))
	assert.ErrorIs(t, svc.RemoveStudent(ctx, "u1", "c1", added.ID), ErrStudentNotFound)
}

func TestClassService_SetCalendarRegenerates(t *testing.T) {
	data := seededData()
	data.Classes[0].Schedule = []model.ScheduleEntry{{DayOfWeek: 1, StartTime: "09:00"}}
	svc, _ := newTestClassService("u1", data)
	ctx := context.Background()

	result, err := svc.SetCalendar(ctx, "u1", model.SchoolCalendar{
		YearStart: "2025-01-06",
		YearEnd:   "2025-01-12",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Config)
	require.NotNil(t, result.Config.Calendar)

	// One Monday in range: exactly one generated lesson.
	require.Len(t, result.Classes[0].Lessons, 1)
	assert.Equal(t, "2025-01-06", result.Classes[0].Lessons[0].Date)
	assert.True(t, result.Classes[0].Lessons[0].IsGenerated)
}

func TestClassService_SetCalendarMalformedAborts(t *testing.T) {
	svc, states := newTestClassService("u1", seededData())
	ctx := context.Background()

	_, err := svc.SetCalendar(ctx, "u1", model.SchoolCalendar{
		YearStart: "06-01-2025",
		YearEnd:   "2025-06-30",
	})
	require.Error(t, err)

	// Nothing was stored.
	current, err := states.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, current.Config)
}

func TestClassService_SetScheduleRegenerates(t *testing.T) {
	data := seededData()
	data.Classes[0].Lessons = nil
	data.Config = &model.AppConfig{Calendar: &model.SchoolCalendar{
		YearStart: "2025-01-06",
		YearEnd:   "2025-01-12",
	}}
	svc, _ := newTestClassService("u1", data)

	got, err := svc.SetSchedule(context.Background(), "u1", "c1", []model.ScheduleEntry{
		{DayOfWeek: 3, StartTime: "11:00"},
	})
	require.NoError(t, err)
	require.Len(t, got.Lessons, 1)
	assert.Equal(t, "2025-01-08", got.Lessons[0].Date)
}

func TestClassService_CreateLessonDefaultsRecords(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())

	lesson, err := svc.CreateLesson(context.Background(), "u1", "c1", model.Lesson{
		Date: "2025-01-07", Time: "14:00", Description: "Apoio",
	})
	require.NoError(t, err)
	assert.False(t, lesson.IsGenerated)
	require.Len(t, lesson.Records, 1)
	assert.Equal(t, "s1", lesson.Records[0].StudentID)
	assert.Equal(t, model.StatusPresente, lesson.Records[0].Status)
}

func TestClassService_UpdateLessonBecomesManual(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())

	updated, err := svc.UpdateLesson(context.Background(), "u1", "c1", model.Lesson{
		ID: "l1", Date: "2025-01-06", Time: "09:00", Description: "Revisões",
	})
	require.NoError(t, err)
	assert.False(t, updated.IsGenerated)
	assert.Equal(t, "Revisões", updated.Description)
}

func TestClassService_SetRecordsKeepsGeneratedFlag(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())

	updated, err := svc.SetLessonRecords(context.Background(), "u1", "c1", "l1", []model.AttendanceRecord{
		{StudentID: "s1", Status: model.StatusAusente},
	})
	require.NoError(t, err)
	assert.True(t, updated.IsGenerated)
	assert.Equal(t, model.StatusAusente, updated.Records[0].Status)
}

func TestClassService_Grades(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())
	ctx := context.Background()

	// Values above 20 are normalized at entry.
	stored, err := svc.SetGrade(ctx, "u1", "c1", "s1", "a1", 150)
	require.NoError(t, err)
	assert.Equal(t, 15.0, stored)

	got, err := svc.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Students[0].Grades["a1"])

	require.NoError(t, svc.ClearGrade(ctx, "u1", "c1", "s1", "a1"))
	got, err = svc.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.NotContains(t, got.Students[0].Grades, "a1")

	_, err = svc.SetGrade(ctx, "u1", "c1", "s1", "missing", 10)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	_, err = svc.SetGrade(ctx, "u1", "c1", "missing", "a1", 10)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestClassService_Assessments(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())
	ctx := context.Background()

	created, err := svc.CreateAssessment(ctx, "u1", "c1", model.Assessment{Name: "Teste 2", Date: "2025-02-01"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	require.NoError(t, svc.DeleteAssessment(ctx, "u1", "c1", created.ID))
	assert.ErrorIs(t, svc.DeleteAssessment(ctx, "u1", "c1", created.ID), ErrAssessmentNotFound)
}

func TestClassService_Measures(t *testing.T) {
	svc, _ := newTestClassService("u1", seededData())
	ctx := context.Background()

	m, err := svc.AddMeasure(ctx, "u1", "c1", "s1", model.Measure{
		Date: "2025-01-10", Type: model.MeasureSeletiva, Description: "Apoio individualizado",
	})
	require.NoError(t, err)
	require.NotEmpty(t, m.ID)

	m.Type = model.MeasureAdicional
	updated, err := svc.UpdateMeasure(ctx, "u1", "c1", "s1", *m)
	require.NoError(t, err)
	assert.Equal(t, model.MeasureAdicional, updated.Type)

	require.NoError(t, svc.DeleteMeasure(ctx, "u1", "c1", "s1", m.ID))
	assert.ErrorIs(t, svc.DeleteMeasure(ctx, "u1", "c1", "s1", m.ID), ErrMeasureNotFound)
}

func TestClassService_MutationsAreUndoable(t *testing.T) {
	svc, states := newTestClassService("u1", seededData())
	ctx := context.Background()

	_, err := svc.AddStudent(ctx, "u1", "c1", model.Student{Name: "Bruno Costa"})
	require.NoError(t, err)

	previous, ok := states.Undo("u1")
	require.True(t, ok)
	assert.Len(t, previous.Classes[0].Students, 1)

	restored, ok := states.Redo("u1")
	require.True(t, ok)
	assert.Len(t, restored.Classes[0].Students, 2)
}
