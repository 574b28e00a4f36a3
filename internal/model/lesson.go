package model

// PresenceStatus marks a student's presence in one lesson.
type PresenceStatus string

const (
	StatusPresente PresenceStatus = "Presente"
	StatusAusente  PresenceStatus = "Ausente"
	StatusAtraso   PresenceStatus = "Atraso"
)

// AttendanceRecord is one student's record for one lesson.
type AttendanceRecord struct {
	StudentID     string         `json:"student_id"`
	Status        PresenceStatus `json:"status"`
	Participation int            `json:"participation"` // 0–5
	TPC           int            `json:"tpc"`           // 0–5, homework completion
	Occurrence    string         `json:"occurrence"`
}

// Lesson is a single class session. Generated lessons are synthesized from
// the weekly schedule; manual lessons are authored by the user and suppress
// generation for their (date, time) slot.
type Lesson struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`           // YYYY-MM-DD
	Time        string             `json:"time,omitempty"` // HH:MM
	Duration    int                `json:"duration,omitempty"`
	Description string             `json:"description"`
	Records     []AttendanceRecord `json:"records"`
	IsGenerated bool               `json:"is_generated,omitempty"`
}
