package model

// SchoolClass owns its students, lessons, schedule and assessments. A class
// is the unit of isolation: nothing references across classes except the
// shared calendar in AppConfig.
type SchoolClass struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Students        []Student       `json:"students"`
	Lessons         []Lesson        `json:"lessons"`
	Schedule        []ScheduleEntry `json:"schedule"`
	Assessments     []Assessment    `json:"assessments,omitempty"`
	DefaultDuration int             `json:"default_duration,omitempty"`
}

// FindStudent returns the student with the given ID, or nil.
func (c *SchoolClass) FindStudent(id string) *Student {
	for i := range c.Students {
		if c.Students[i].ID == id {
			return &c.Students[i]
		}
	}
	return nil
}

// FindLesson returns the lesson with the given ID, or nil.
func (c *SchoolClass) FindLesson(id string) *Lesson {
	for i := range c.Lessons {
		if c.Lessons[i].ID == id {
			return &c.Lessons[i]
		}
	}
	return nil
}
