package model

// MeasureType classifies a support measure by regulatory category.
type MeasureType string

const (
	MeasureUniversal MeasureType = "Universal"
	MeasureSeletiva  MeasureType = "Seletiva"
	MeasureAdicional MeasureType = "Adicional"
	MeasureAdaptacao MeasureType = "Adaptação"
)

// Measure is a pedagogical support intervention tied to a student.
type Measure struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"` // YYYY-MM-DD
	Type        MeasureType `json:"type"`
	Description string      `json:"description"`
	SourceFile  string      `json:"source_file,omitempty"`
}

// Student is one roster member. Grades is keyed by assessment ID, on a 0–20
// scale after normalization.
type Student struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Photo     string             `json:"photo,omitempty"`
	Email     string             `json:"email,omitempty"`
	BirthDate string             `json:"birth_date,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	Grades    map[string]float64 `json:"grades,omitempty"`
	Measures  []Measure          `json:"measures,omitempty"`
}

// Assessment is one graded moment (test, project, ...) defined on a class.
type Assessment struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Weight float64 `json:"weight,omitempty"`
}
