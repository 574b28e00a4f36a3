package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alextrocado/edumanage/internal/grading"
	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/roster"
)

// ImportMode selects what an extracted document is merged into.
type ImportMode string

const (
	ImportRoster   ImportMode = "roster"
	ImportGrades   ImportMode = "grades"
	ImportSchedule ImportMode = "schedule"
	ImportMeasures ImportMode = "measures"
)

// ImportResult reports what a merge did. Skipped holds extracted names
// that matched nobody on the roster; they are reported, never guessed.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// extractedStudent is the schema for roster imports.
type extractedStudent struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// extractedGrade is the schema for grade sheet imports.
type extractedGrade struct {
	StudentName string  `json:"student_name"`
	Grade       float64 `json:"grade"`
}

// extractedMeasure is the schema for support measure imports.
type extractedMeasure struct {
	StudentName string `json:"student_name"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// extractedSlot is the schema for timetable imports.
type extractedSlot struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration,omitempty"`
}

// ImportService orchestrates AI-assisted document imports: it builds the
// extraction instruction and schema per mode, validates the returned JSON
// and merges it into the class through the fuzzy roster matcher. A failed
// extraction or validation leaves the state untouched.
type ImportService struct {
	extract *ExtractService
	classes *ClassService
	matcher roster.Matcher
	log     zerolog.Logger
}

// NewImportService creates a new ImportService with the default matcher.
func NewImportService(extract *ExtractService, classes *ClassService, log zerolog.Logger) *ImportService {
	return &ImportService{
		extract: extract,
		classes: classes,
		matcher: roster.TokenMatcher{},
		log:     log.With().Str("component", "import_service").Logger(),
	}
}

// FromDocument extracts structured data from one scanned page and merges
// it into the class according to mode.
func (s *ImportService) FromDocument(ctx context.Context, userID, classID string, mode ImportMode, imageBase64, mimeType, sourceFile string) (*ImportResult, error) {
	instruction, schema := buildPrompt(mode)
	raw, err := s.extract.Extract(ctx, imageBase64, mimeType, instruction, schema)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ImportRoster:
		return s.mergeRoster(ctx, userID, classID, raw)
	case ImportGrades:
		return s.mergeGrades(ctx, userID, classID, raw, sourceFile)
	case ImportSchedule:
		return s.mergeSchedule(ctx, userID, classID, raw)
	case ImportMeasures:
		return s.mergeMeasures(ctx, userID, classID, raw, sourceFile)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrExtractFailed, mode)
	}
}

func (s *ImportService) mergeRoster(ctx context.Context, userID, classID string, raw json.RawMessage) (*ImportResult, error) {
	var extracted []extractedStudent
	if err := json.Unmarshal(raw, &extracted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	// The whole page merges in one state update: one undo step, and a
	// failed row leaves nothing half-applied.
	result := &ImportResult{}
	_, err := s.classes.MutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		for _, e := range extracted {
			name := strings.TrimSpace(e.Name)
			if name == "" {
				continue
			}
			if existing := roster.FindStudent(c.Students, name, s.matcher); existing != nil {
				// Known student: refresh contact fields only.
				existing.Email = orKeep(e.Email, existing.Email)
				existing.BirthDate = orKeep(e.BirthDate, existing.BirthDate)
			} else {
				c.Students = append(c.Students, model.Student{
					ID:        uuid.New().String(),
					Name:      name,
					Email:     e.Email,
					BirthDate: e.BirthDate,
				})
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ImportService) mergeGrades(ctx context.Context, userID, classID string, raw json.RawMessage, sourceFile string) (*ImportResult, error) {
	var payload struct {
		AssessmentName string           `json:"assessment_name"`
		Date           string           `json:"date"`
		Grades         []extractedGrade `json:"grades"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	if len(payload.Grades) == 0 {
		return nil, fmt.Errorf("%w: no grades found", ErrExtractFailed)
	}

	name := payload.AssessmentName
	if name == "" {
		name = sourceFile
	}

	// Assessment and all matched grades land in one state update.
	result := &ImportResult{}
	_, err := s.classes.MutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		assessment := model.Assessment{
			ID:   uuid.New().String(),
			Name: name,
			Date: payload.Date,
		}
		c.Assessments = append(c.Assessments, assessment)

		for _, g := range payload.Grades {
			st := roster.FindStudent(c.Students, g.StudentName, s.matcher)
			if st == nil {
				result.Skipped = append(result.Skipped, g.StudentName)
				continue
			}
			if st.Grades == nil {
				st.Grades = make(map[string]float64)
			}
			st.Grades[assessment.ID] = grading.Normalize(g.Grade)
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ImportService) mergeSchedule(ctx context.Context, userID, classID string, raw json.RawMessage) (*ImportResult, error) {
	var extracted []extractedSlot
	if err := json.Unmarshal(raw, &extracted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	entries := make([]model.ScheduleEntry, 0, len(extracted))
	for _, e := range extracted {
		if e.DayOfWeek < 0 || e.DayOfWeek > 6 || e.StartTime == "" {
			continue
		}
		entries = append(entries, model.ScheduleEntry{
			DayOfWeek: e.DayOfWeek,
			StartTime: e.StartTime,
			Duration:  e.Duration,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no schedule entries found", ErrExtractFailed)
	}

	if _, err := s.classes.SetSchedule(ctx, userID, classID, entries); err != nil {
		return nil, err
	}
	return &ImportResult{Imported: len(entries)}, nil
}

func (s *ImportService) mergeMeasures(ctx context.Context, userID, classID string, raw json.RawMessage, sourceFile string) (*ImportResult, error) {
	var extracted []extractedMeasure
	if err := json.Unmarshal(raw, &extracted); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}

	result := &ImportResult{}
	_, err := s.classes.MutateClass(ctx, userID, classID, func(c *model.SchoolClass) error {
		for _, e := range extracted {
			st := roster.FindStudent(c.Students, e.StudentName, s.matcher)
			if st == nil {
				result.Skipped = append(result.Skipped, e.StudentName)
				continue
			}
			st.Measures = append(st.Measures, model.Measure{
				ID:          uuid.New().String(),
				Date:        e.Date,
				Type:        measureType(e.Type),
				Description: e.Description,
				SourceFile:  sourceFile,
			})
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildPrompt returns the extraction instruction and response schema for a
// mode. Prompts are in Portuguese, matching the documents being scanned.
func buildPrompt(mode ImportMode) (string, map[string]interface{}) {
	switch mode {
	case ImportRoster:
		return "Extrai a lista de alunos deste documento. Devolve um array JSON de objetos com name, email (se visível) e birth_date (YYYY-MM-DD, se visível).",
			arraySchema(map[string]interface{}{
				"name":       map[string]interface{}{"type": "STRING"},
				"email":      map[string]interface{}{"type": "STRING"},
				"birth_date": map[string]interface{}{"type": "STRING"},
			}, []string{"name"})
	case ImportGrades:
		return "Extrai a pauta de notas deste documento. Devolve um objeto JSON com assessment_name, date (YYYY-MM-DD) e grades: array de {student_name, grade}. As notas estão na escala 0-20 ou 0-200.",
			map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"assessment_name": map[string]interface{}{"type": "STRING"},
					"date":            map[string]interface{}{"type": "STRING"},
					"grades": arraySchema(map[string]interface{}{
						"student_name": map[string]interface{}{"type": "STRING"},
						"grade":        map[string]interface{}{"type": "NUMBER"},
					}, []string{"student_name", "grade"}),
				},
				"required": []string{"grades"},
			}
	case ImportSchedule:
		return "Extrai o horário semanal deste documento. Devolve um array JSON de {day_of_week (0=Domingo..6=Sábado), start_time (HH:MM), duration (minutos)}.",
			arraySchema(map[string]interface{}{
				"day_of_week": map[string]interface{}{"type": "INTEGER"},
				"start_time":  map[string]interface{}{"type": "STRING"},
				"duration":    map[string]interface{}{"type": "INTEGER"},
			}, []string{"day_of_week", "start_time"})
	case ImportMeasures:
		return "Extrai as medidas de suporte à aprendizagem deste documento. Devolve um array JSON de {student_name, date (YYYY-MM-DD), type (Universal, Seletiva, Adicional ou Adaptação), description}.",
			arraySchema(map[string]interface{}{
				"student_name": map[string]interface{}{"type": "STRING"},
				"date":         map[string]interface{}{"type": "STRING"},
				"type":         map[string]interface{}{"type": "STRING"},
				"description":  map[string]interface{}{"type": "STRING"},
			}, []string{"student_name", "description"})
	}
	return "", nil
}

func arraySchema(properties map[string]interface{}, required []string) map[string]interface{} {
	return map[string]interface{}{
		"type": "ARRAY",
		"items": map[string]interface{}{
			"type":       "OBJECT",
			"properties": properties,
			"required":   required,
		},
	}
}

func measureType(raw string) model.MeasureType {
	switch model.MeasureType(strings.TrimSpace(raw)) {
	case model.MeasureUniversal, model.MeasureSeletiva, model.MeasureAdicional, model.MeasureAdaptacao:
		return model.MeasureType(strings.TrimSpace(raw))
	default:
		return model.MeasureSeletiva
	}
}

func orKeep(next, current string) string {
	if next != "" {
		return next
	}
	return current
}
