package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/grading"
	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/planner"
)

// Not-found errors for document entities.
var (
	ErrClassNotFound      = errors.New("class not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrMeasureNotFound    = errors.New("measure not found")
)

// ClassService implements the domain operations over the state document:
// classes, rosters, schedules, lessons, assessments, grades and support
// measures. Every mutation replaces the document wholesale through the
// state service.
type ClassService struct {
	states *StateService
	log    zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(states *StateService, log zerolog.Logger) *ClassService {
	return &ClassService{states: states, log: log.With().Str("component", "class_service").Logger()}
}

// ─── Classes ────────────────────────────────────────────────────────────

// ListClasses returns all classes in the user's document.
func (s *ClassService) ListClasses(ctx context.Context, userID string) ([]model.SchoolClass, error) {
	data, err := s.states.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Classes, nil
}

// GetClass returns one class by ID.
func (s *ClassService) GetClass(ctx context.Context, userID, classID string) (*model.SchoolClass, error) {
	data, err := s.states.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := data.FindClass(classID)
	if c == nil {
		return nil, ErrClassNotFound
	}
	return c, nil
}

// CreateClass appends a new empty class.
func (s *ClassService) CreateClass(ctx context.Context, userID, name string, defaultDuration int) (*model.SchoolClass, error) {
	class := model.SchoolClass{
		ID:              uuid.New().String(),
		Name:            name,
		Students:        []model.Student{},
		Lessons:         []model.Lesson{},
		Schedule:        []model.ScheduleEntry{},
		DefaultDuration: defaultDuration,
	}
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		d.Classes = append(d.Classes, class)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// UpdateClass renames a class and adjusts its default lesson duration.
func (s *ClassService) UpdateClass(ctx context.Context, userID, classID, name string, defaultDuration int) (*model.SchoolClass, error) {
	return s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		c.Name = name
		c.DefaultDuration = defaultDuration
		return nil
	})
}

// DeleteClass removes a class and everything it owns.
func (s *ClassService) DeleteClass(ctx context.Context, userID, classID string) error {
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		for i, c := range d.Classes {
			if c.ID == classID {
				d.Classes = append(d.Classes[:i], d.Classes[i+1:]...)
				return d, nil
			}
		}
		return d, ErrClassNotFound
	})
	return err
}

// ─── Students ───────────────────────────────────────────────────────────

// AddStudent appends a student to a class roster.
func (s *ClassService) AddStudent(ctx context.Context, userID, classID string, student model.Student) (*model.Student, error) {
	student.ID = uuid.New().String()
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		c.Students = append(c.Students, student)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent replaces a student's editable fields. Grades and measures
// are managed through their own operations.
func (s *ClassService) UpdateStudent(ctx context.Context, userID, classID string, student model.Student) (*model.Student, error) {
	var out model.Student
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		existing := c.FindStudent(student.ID)
		if existing == nil {
			return ErrStudentNotFound
		}
		existing.Name = student.Name
		existing.Photo = student.Photo
		existing.Email = student.Email
		existing.BirthDate = student.BirthDate
		existing.Notes = student.Notes
		out = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveStudent drops a student from the roster. Attendance records inside
// existing lessons are kept; the aggregators simply stop resolving them.
func (s *ClassService) RemoveStudent(ctx context.Context, userID, classID, studentID string) error {
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		for i, st := range c.Students {
			if st.ID == studentID {
				c.Students = append(c.Students[:i], c.Students[i+1:]...)
				return nil
			}
		}
		return ErrStudentNotFound
	})
	return err
}

// ─── Schedule & calendar ────────────────────────────────────────────────

// SetSchedule replaces a class's weekly schedule and regenerates its
// lessons against the current calendar.
func (s *ClassService) SetSchedule(ctx context.Context, userID, classID string, entries []model.ScheduleEntry) (*model.SchoolClass, error) {
	var out model.SchoolClass
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		c := d.FindClass(classID)
		if c == nil {
			return d, ErrClassNotFound
		}
		c.Schedule = entries

		if d.Config != nil && d.Config.Calendar != nil {
			regenerated, err := planner.Generate(*c, d.Config.Calendar)
			if err != nil {
				return d, err
			}
			*c = regenerated
		}
		out = *c
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCalendar stores the school calendar and regenerates every class.
// Malformed year bounds abort the whole update (planner.ErrInvalidCalendar).
func (s *ClassService) SetCalendar(ctx context.Context, userID string, cal model.SchoolCalendar) (model.AppData, error) {
	return s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		if d.Config == nil {
			d.Config = &model.AppConfig{}
		}
		d.Config.Calendar = &cal

		for i, c := range d.Classes {
			regenerated, err := planner.Generate(c, &cal)
			if err != nil {
				return d, fmt.Errorf("class %s: %w", c.ID, err)
			}
			d.Classes[i] = regenerated
		}
		return d, nil
	})
}

// GenerateLessons regenerates one class's lesson list from its schedule
// and the stored calendar. Without a calendar this is a no-op.
func (s *ClassService) GenerateLessons(ctx context.Context, userID, classID string) (*model.SchoolClass, error) {
	var out model.SchoolClass
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		c := d.FindClass(classID)
		if c == nil {
			return d, ErrClassNotFound
		}
		var cal *model.SchoolCalendar
		if d.Config != nil {
			cal = d.Config.Calendar
		}
		regenerated, err := planner.Generate(*c, cal)
		if err != nil {
			return d, err
		}
		*c = regenerated
		out = *c
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ─── Lessons ────────────────────────────────────────────────────────────

// CreateLesson adds a manual lesson with one blank attendance record per
// roster student, then regenerates so a generated lesson in the same slot
// disappears.
func (s *ClassService) CreateLesson(ctx context.Context, userID, classID string, lesson model.Lesson) (*model.Lesson, error) {
	lesson.ID = uuid.New().String()
	lesson.IsGenerated = false
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		c := d.FindClass(classID)
		if c == nil {
			return d, ErrClassNotFound
		}
		if lesson.Records == nil {
			lesson.Records = planner.DefaultRecords(c.Students)
		}
		c.Lessons = append(c.Lessons, lesson)

		if d.Config != nil && d.Config.Calendar != nil {
			regenerated, err := planner.Generate(*c, d.Config.Calendar)
			if err != nil {
				return d, err
			}
			*c = regenerated
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// UpdateLesson edits a lesson's fields. Editing turns a generated lesson
// into a manual one, which from then on suppresses generation for its
// (date, time) slot.
func (s *ClassService) UpdateLesson(ctx context.Context, userID, classID string, lesson model.Lesson) (*model.Lesson, error) {
	var out model.Lesson
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		existing := c.FindLesson(lesson.ID)
		if existing == nil {
			return ErrLessonNotFound
		}
		existing.Date = lesson.Date
		existing.Time = lesson.Time
		existing.Duration = lesson.Duration
		existing.Description = lesson.Description
		existing.IsGenerated = false
		out = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLessonRecords replaces a lesson's attendance records without touching
// the generated flag: taking attendance does not make a lesson manual.
func (s *ClassService) SetLessonRecords(ctx context.Context, userID, classID, lessonID string, records []model.AttendanceRecord) (*model.Lesson, error) {
	var out model.Lesson
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		existing := c.FindLesson(lessonID)
		if existing == nil {
			return ErrLessonNotFound
		}
		existing.Records = records
		out = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLesson removes a lesson by ID.
func (s *ClassService) DeleteLesson(ctx context.Context, userID, classID, lessonID string) error {
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		for i, l := range c.Lessons {
			if l.ID == lessonID {
				c.Lessons = append(c.Lessons[:i], c.Lessons[i+1:]...)
				return nil
			}
		}
		return ErrLessonNotFound
	})
	return err
}

// ─── Assessments & grades ───────────────────────────────────────────────

// CreateAssessment appends a graded moment to a class.
func (s *ClassService) CreateAssessment(ctx context.Context, userID, classID string, a model.Assessment) (*model.Assessment, error) {
	a.ID = uuid.New().String()
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		c.Assessments = append(c.Assessments, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAssessment removes an assessment. Grade map entries keyed by it
// become unreachable and are ignored by the aggregators.
func (s *ClassService) DeleteAssessment(ctx context.Context, userID, classID, assessmentID string) error {
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		for i, a := range c.Assessments {
			if a.ID == assessmentID {
				c.Assessments = append(c.Assessments[:i], c.Assessments[i+1:]...)
				return nil
			}
		}
		return ErrAssessmentNotFound
	})
	return err
}

// SetGrade records a student's grade for an assessment, normalized at
// entry (values above 20 are divided by 10).
func (s *ClassService) SetGrade(ctx context.Context, userID, classID, studentID, assessmentID string, value float64) (float64, error) {
	stored := grading.Normalize(value)
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		st := c.FindStudent(studentID)
		if st == nil {
			return ErrStudentNotFound
		}
		if !hasAssessment(c.Assessments, assessmentID) {
			return ErrAssessmentNotFound
		}
		if st.Grades == nil {
			st.Grades = make(map[string]float64)
		}
		st.Grades[assessmentID] = stored
		return nil
	})
	return stored, err
}

// ClearGrade removes a student's grade for an assessment.
func (s *ClassService) ClearGrade(ctx context.Context, userID, classID, studentID, assessmentID string) error {
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		st := c.FindStudent(studentID)
		if st == nil {
			return ErrStudentNotFound
		}
		delete(st.Grades, assessmentID)
		return nil
	})
	return err
}

// ─── Support measures ───────────────────────────────────────────────────

// AddMeasure records a support measure on a student.
func (s *ClassService) AddMeasure(ctx context.Context, userID, classID, studentID string, m model.Measure) (*model.Measure, error) {
	m.ID = uuid.New().String()
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		st := c.FindStudent(studentID)
		if st == nil {
			return ErrStudentNotFound
		}
		st.Measures = append(st.Measures, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMeasure edits an existing support measure.
func (s *ClassService) UpdateMeasure(ctx context.Context, userID, classID, studentID string, m model.Measure) (*model.Measure, error) {
	var out model.Measure
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		st := c.FindStudent(studentID)
		if st == nil {
			return ErrStudentNotFound
		}
		for i := range st.Measures {
			if st.Measures[i].ID == m.ID {
				m.SourceFile = st.Measures[i].SourceFile
				st.Measures[i] = m
				out = m
				return nil
			}
		}
		return ErrMeasureNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeasure removes a support measure from a student.
func (s *ClassService) DeleteMeasure(ctx context.Context, userID, classID, studentID, measureID string) error {
	_, err := s.mutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		st := c.FindStudent(studentID)
		if st == nil {
			return ErrStudentNotFound
		}
		for i, mm := range st.Measures {
			if mm.ID == measureID {
				st.Measures = append(st.Measures[:i], st.Measures[i+1:]...)
				return nil
			}
		}
		return ErrMeasureNotFound
	})
	return err
}

// ─── Helpers ────────────────────────────────────────────────────────────

// mutateClass runs fn against one class inside an Apply.
// MutateClass applies fn to one class inside a single state update.
// Batch operations such as document imports use it so a whole merge
// lands as one undo step and fails atomically.
func (s *ClassService) MutateClass(ctx context.Context, userID, classID string, fn func(*model.SchoolClass) error) (*model.SchoolClass, error) {
	return s.mutateClass(ctx, userID, classID, fn)
}

func (s *ClassService) mutateClass(ctx context.Context, userID, classID string, fn func(*model.SchoolClass) error) (*model.SchoolClass, error) {
	var out model.SchoolClass
	_, err := s.states.Apply(ctx, userID, func(d model.AppData) (model.AppData, error) {
		c := d.FindClass(classID)
		if c == nil {
			return d, ErrClassNotFound
		}
		if err := fn(c); err != nil {
			return d, err
		}
		out = *c
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func hasAssessment(assessments []model.Assessment, id string) bool {
	for _, a := range assessments {
		if a.ID == id {
			return true
		}
	}
	return false
}
