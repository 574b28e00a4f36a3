// Package planner expands a class's weekly schedule into dated lessons
// across the school year, respecting holidays and manual overrides.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alextrocado/edumanage/internal/model"
)

// ErrInvalidCalendar signals malformed school year bounds. This is a
// configuration error and must be surfaced to the user rather than
// silently producing an empty or wrong iteration range.
var ErrInvalidCalendar = errors.New("invalid calendar bounds")

const (
	defaultDuration      = 50
	generatedDescription = "Aula Programada"
)

// Generate returns a copy of class whose lesson list is rebuilt from the
// weekly schedule and the school calendar:
//
//   - manual lessons (IsGenerated false) are kept untouched;
//   - previously generated lessons are replaced by a fresh set, reusing
//     the old lesson's ID and attendance records when the (date, time)
//     slot matches, so regeneration is idempotent and never loses
//     attendance already taken;
//   - a manual lesson at a scheduled (date, time) suppresses generation
//     for that slot;
//   - days inside any holiday interval produce no lessons.
//
// A calendar without year bounds is a no-op. Reused lessons keep their
// prior records verbatim: a student added to the roster after generation
// only appears in lessons minted on a later pass.
func Generate(class model.SchoolClass, cal *model.SchoolCalendar) (model.SchoolClass, error) {
	if cal == nil || cal.YearStart == "" || cal.YearEnd == "" {
		return class, nil
	}

	start, err := parseDate(cal.YearStart)
	if err != nil {
		return class, fmt.Errorf("%w: year_start %q", ErrInvalidCalendar, cal.YearStart)
	}
	end, err := parseDate(cal.YearEnd)
	if err != nil {
		return class, fmt.Errorf("%w: year_end %q", ErrInvalidCalendar, cal.YearEnd)
	}

	var manual, previous []model.Lesson
	for _, l := range class.Lessons {
		if l.IsGenerated {
			previous = append(previous, l)
		} else {
			manual = append(manual, l)
		}
	}

	var generated []model.Lesson
	if len(class.Schedule) > 0 {
		for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
			dateStr := cur.Format("2006-01-02")
			if isHoliday(cal.Holidays, dateStr) {
				continue
			}
			dow := int(cur.Weekday())
			for _, slot := range class.Schedule {
				if slot.DayOfWeek != dow {
					continue
				}
				if hasLessonAt(manual, dateStr, slot.StartTime) {
					// Manual override wins for this slot.
					continue
				}
				generated = append(generated, buildLesson(class.Students, previous, dateStr, slot))
			}
		}
	}

	class.Lessons = append(manual, generated...)
	return class, nil
}

// parseDate reads an ISO date and pins it to local noon. Walking days at a
// fixed mid-day hour keeps the iteration stable across DST transitions.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local), nil
}

// isHoliday reports whether dateStr falls inside any holiday interval.
// Intervals are closed and compared as ISO date strings.
func isHoliday(holidays []model.SchoolHoliday, dateStr string) bool {
	for _, h := range holidays {
		if dateStr >= h.StartDate && dateStr <= h.EndDate {
			return true
		}
	}
	return false
}

func hasLessonAt(lessons []model.Lesson, date, startTime string) bool {
	for _, l := range lessons {
		if l.Date == date && l.Time == startTime {
			return true
		}
	}
	return false
}

func buildLesson(roster []model.Student, previous []model.Lesson, date string, slot model.ScheduleEntry) model.Lesson {
	duration := slot.Duration
	if duration == 0 {
		duration = defaultDuration
	}

	lesson := model.Lesson{
		Date:        date,
		Time:        slot.StartTime,
		Duration:    duration,
		Description: generatedDescription,
		IsGenerated: true,
	}

	for _, prev := range previous {
		if prev.Date == date && prev.Time == slot.StartTime {
			lesson.ID = prev.ID
			lesson.Records = prev.Records
			return lesson
		}
	}

	lesson.ID = uuid.New().String()
	lesson.Records = DefaultRecords(roster)
	return lesson
}

// DefaultRecords builds one blank attendance record per roster student.
func DefaultRecords(roster []model.Student) []model.AttendanceRecord {
	records := make([]model.AttendanceRecord, 0, len(roster))
	for _, s := range roster {
		records = append(records, model.AttendanceRecord{
			StudentID:     s.ID,
			Status:        model.StatusPresente,
			Participation: 0,
			TPC:           0,
			Occurrence:    "",
		})
	}
	return records
}
