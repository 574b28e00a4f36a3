package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
)

// Two weeks in January 2025. Jan 6 and Jan 13 are Mondays, Jan 8 and
// Jan 15 are Wednesdays.
func testCalendar() *model.SchoolCalendar {
	return &model.SchoolCalendar{
		YearStart: "2025-01-06",
		YearEnd:   "2025-01-19",
	}
}

func testClass() model.SchoolClass {
	return model.SchoolClass{
		ID:   "c1",
		Name: "7A",
		Students: []model.Student{
			{ID: "s1", Name: "Ana Silva"},
			{ID: "s2", Name: "Bruno Costa"},
		},
		Schedule: []model.ScheduleEntry{
			{DayOfWeek: 1, StartTime: "09:00", Duration: 45},
			{DayOfWeek: 3, StartTime: "11:00"},
		},
	}
}

func lessonDates(lessons []model.Lesson) []string {
	dates := make([]string, 0, len(lessons))
	for _, l := range lessons {
		dates = append(dates, l.Date+" "+l.Time)
	}
	return dates
}

func TestGenerate_WeeklySchedule(t *testing.T) {
	got, err := Generate(testClass(), testCalendar())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-01-06 09:00",
		"2025-01-08 11:00",
		"2025-01-13 09:00",
		"2025-01-15 11:00",
	}, lessonDates(got.Lessons))

	for _, l := range got.Lessons {
		assert.True(t, l.IsGenerated)
		assert.Equal(t, "Aula Programada", l.Description)
		assert.NotEmpty(t, l.ID)
		require.Len(t, l.Records, 2)
		assert.Equal(t, "s1", l.Records[0].StudentID)
		assert.Equal(t, model.StatusPresente, l.Records[0].Status)
	}
}

func TestGenerate_DefaultDuration(t *testing.T) {
	got, err := Generate(testClass(), testCalendar())
	require.NoError(t, err)

	assert.Equal(t, 45, got.Lessons[0].Duration) // Monday slot sets its own
	assert.Equal(t, 50, got.Lessons[1].Duration) // Wednesday slot falls back
}

func TestGenerate_HolidayExcluded(t *testing.T) {
	cal := testCalendar()
	cal.Holidays = []model.SchoolHoliday{
		{Name: "Férias", StartDate: "2025-01-13", EndDate: "2025-01-19"},
	}

	got, err := Generate(testClass(), cal)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2025-01-06 09:00",
		"2025-01-08 11:00",
	}, lessonDates(got.Lessons))
}

func TestGenerate_HolidaySingleDay(t *testing.T) {
	cal := testCalendar()
	// A one-day interval covering only the first Monday.
	cal.Holidays = []model.SchoolHoliday{
		{Name: "Feriado", StartDate: "2025-01-06", EndDate: "2025-01-06"},
	}

	got, err := Generate(testClass(), cal)
	require.NoError(t, err)
	assert.NotContains(t, lessonDates(got.Lessons), "2025-01-06 09:00")
	assert.Contains(t, lessonDates(got.Lessons), "2025-01-08 11:00")
}

func TestGenerate_ManualLessonSuppressesSlot(t *testing.T) {
	class := testClass()
	class.Lessons = []model.Lesson{
		{ID: "m1", Date: "2025-01-06", Time: "09:00", Description: "Visita de estudo"},
	}

	got, err := Generate(class, testCalendar())
	require.NoError(t, err)

	// The manual lesson occupies the slot; no generated duplicate.
	count := 0
	for _, l := range got.Lessons {
		if l.Date == "2025-01-06" && l.Time == "09:00" {
			count++
			assert.Equal(t, "m1", l.ID)
			assert.False(t, l.IsGenerated)
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, got.Lessons, 4) // 1 manual + 3 generated
}

func TestGenerate_ManualLessonOffScheduleKept(t *testing.T) {
	class := testClass()
	class.Lessons = []model.Lesson{
		{ID: "m1", Date: "2025-01-07", Time: "14:00", Description: "Apoio"},
	}

	got, err := Generate(class, testCalendar())
	require.NoError(t, err)
	assert.Len(t, got.Lessons, 5)
	assert.Equal(t, "m1", got.Lessons[0].ID)
}

func TestGenerate_IdempotentKeepsIDsAndRecords(t *testing.T) {
	first, err := Generate(testClass(), testCalendar())
	require.NoError(t, err)

	// Take attendance on the first generated lesson.
	first.Lessons[0].Records[0].Status = model.StatusAusente
	first.Lessons[0].Records[0].Occurrence = "faltou"

	second, err := Generate(first, testCalendar())
	require.NoError(t, err)

	require.Len(t, second.Lessons, len(first.Lessons))
	for i := range first.Lessons {
		assert.Equal(t, first.Lessons[i].ID, second.Lessons[i].ID)
	}
	assert.Equal(t, model.StatusAusente, second.Lessons[0].Records[0].Status)
	assert.Equal(t, "faltou", second.Lessons[0].Records[0].Occurrence)
}

func TestGenerate_ReusedLessonKeepsStaleRoster(t *testing.T) {
	first, err := Generate(testClass(), testCalendar())
	require.NoError(t, err)

	// A student joining after generation does not appear in reused lessons.
	first.Students = append(first.Students, model.Student{ID: "s3", Name: "Carla Dias"})

	second, err := Generate(first, testCalendar())
	require.NoError(t, err)
	assert.Len(t, second.Lessons[0].Records, 2)
}

func TestGenerate_EmptyScheduleDropsGenerated(t *testing.T) {
	first, err := Generate(testClass(), testCalendar())
	require.NoError(t, err)
	require.NotEmpty(t, first.Lessons)

	first.Schedule = nil
	first.Lessons = append(first.Lessons, model.Lesson{
		ID: "m1", Date: "2025-01-07", Time: "14:00",
	})

	second, err := Generate(first, testCalendar())
	require.NoError(t, err)
	require.Len(t, second.Lessons, 1)
	assert.Equal(t, "m1", second.Lessons[0].ID)
}

func TestGenerate_MissingBoundsNoOp(t *testing.T) {
	class := testClass()
	class.Lessons = []model.Lesson{{ID: "m1", Date: "2025-01-07"}}

	got, err := Generate(class, nil)
	require.NoError(t, err)
	assert.Equal(t, class.Lessons, got.Lessons)

	got, err = Generate(class, &model.SchoolCalendar{YearStart: "2025-01-06"})
	require.NoError(t, err)
	assert.Equal(t, class.Lessons, got.Lessons)
}

func TestGenerate_MalformedBounds(t *testing.T) {
	_, err := Generate(testClass(), &model.SchoolCalendar{
		YearStart: "06/01/2025",
		YearEnd:   "2025-01-19",
	})
	assert.ErrorIs(t, err, ErrInvalidCalendar)

	_, err = Generate(testClass(), &model.SchoolCalendar{
		YearStart: "2025-01-06",
		YearEnd:   "not-a-date",
	})
	assert.ErrorIs(t, err, ErrInvalidCalendar)
}

func TestDefaultRecords(t *testing.T) {
	records := DefaultRecords([]model.Student{{ID: "s1"}, {ID: "s2"}})
	require.Len(t, records, 2)
	assert.Equal(t, model.StatusPresente, records[0].Status)
	assert.Zero(t, records[0].Participation)
	assert.Zero(t, records[0].TPC)

	assert.Empty(t, DefaultRecords(nil))
}
