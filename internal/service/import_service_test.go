package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
	"github.com/alextrocado/edumanage/internal/roster"
)

func newTestImportService(userID string, data model.AppData) (*ImportService, *ClassService) {
	classes, _ := newTestClassService(userID, data)
	svc := &ImportService{
		classes: classes,
		matcher: roster.TokenMatcher{},
		log:     zerolog.Nop(),
	}
	return svc, classes
}

func importData() model.AppData {
	return model.AppData{
		Classes: []model.SchoolClass{
			{
				ID:   "c1",
				Name: "7A",
				Students: []model.Student{
					{ID: "s1", Name: "José António Marques"},
					{ID: "s2", Name: "Ana Maria Costa"},
				},
			},
		},
	}
}

func TestImportService_MergeRoster(t *testing.T) {
	svc, classes := newTestImportService("u1", importData())
	ctx := context.Background()

	raw := json.RawMessage(`[
		{"name": "Jose Antonio Marques", "email": "jose@escola.pt"},
		{"name": "Bruno Dias", "birth_date": "2012-03-04"},
		{"name": "   "}
	]`)

	result, err := svc.mergeRoster(ctx, "u1", "c1", raw)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	class, err := classes.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, class.Students, 3)

	// Existing student matched despite diacritics: contact refreshed, no duplicate.
	assert.Equal(t, "jose@escola.pt", class.Students[0].Email)
	assert.Equal(t, "José António Marques", class.Students[0].Name)

	// Unknown name becomes a new student.
	assert.Equal(t, "Bruno Dias", class.Students[2].Name)
	assert.Equal(t, "2012-03-04", class.Students[2].BirthDate)
}

func TestImportService_MergeGrades(t *testing.T) {
	svc, classes := newTestImportService("u1", importData())
	ctx := context.Background()

	raw := json.RawMessage(`{
		"assessment_name": "Teste de Março",
		"date": "2025-03-10",
		"grades": [
			{"student_name": "Jose Antonio", "grade": 145},
			{"student_name": "Ana Costa", "grade": 16},
			{"student_name": "Desconhecido Total", "grade": 10}
		]
	}`)

	result, err := svc.mergeGrades(ctx, "u1", "c1", raw, "pauta.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"Desconhecido Total"}, result.Skipped)

	class, err := classes.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, class.Assessments, 1)
	assert.Equal(t, "Teste de Março", class.Assessments[0].Name)

	aid := class.Assessments[0].ID
	// 145 on the 0-200 scale was normalized at entry.
	assert.Equal(t, 14.5, class.Students[0].Grades[aid])
	assert.Equal(t, 16.0, class.Students[1].Grades[aid])
}

func TestImportService_MergeGradesFallsBackToFilename(t *testing.T) {
	svc, classes := newTestImportService("u1", importData())
	ctx := context.Background()

	raw := json.RawMessage(`{"grades": [{"student_name": "Ana Costa", "grade": 12}]}`)
	_, err := svc.mergeGrades(ctx, "u1", "c1", raw, "pauta_marco.pdf")
	require.NoError(t, err)

	class, err := classes.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "pauta_marco.pdf", class.Assessments[0].Name)
}

func TestImportService_MergeGradesEmpty(t *testing.T) {
	svc, _ := newTestImportService("u1", importData())

	_, err := svc.mergeGrades(context.Background(), "u1", "c1", json.RawMessage(`{"grades": []}`), "x.pdf")
	assert.ErrorIs(t, err, ErrExtractFailed)
}

func TestImportService_MergeSchedule(t *testing.T) {
	svc, classes := newTestImportService("u1", importData())
	ctx := context.Background()

	raw := json.RawMessage(`[
		{"day_of_week": 1, "start_time": "09:00", "duration": 45},
		{"day_of_week": 9, "start_time": "10:00"},
		{"day_of_week": 3, "start_time": ""}
	]`)

	result, err := svc.mergeSchedule(ctx, "u1", "c1", raw)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	class, err := classes.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	require.Len(t, class.Schedule, 1)
	assert.Equal(t, "09:00", class.Schedule[0].StartTime)
}

func TestImportService_MergeScheduleAllInvalid(t *testing.T) {
	svc, _ := newTestImportService("u1", importData())

	raw := json.RawMessage(`[{"day_of_week": 7, "start_time": "10:00"}]`)
	_, err := svc.mergeSchedule(context.Background(), "u1", "c1", raw)
	assert.ErrorIs(t, err, ErrExtractFailed)
}

func TestImportService_MergeMeasures(t *testing.T) {
	svc, classes := newTestImportService("u1", importData())
	ctx := context.Background()

	raw := json.RawMessage(`[
		{"student_name": "Ana Costa", "date": "2025-01-15", "type": "Adicional", "description": "Plano individual"},
		{"student_name": "Ana Costa", "date": "2025-02-01", "type": "algo estranho", "description": "Sem tipo válido"},
		{"student_name": "Ninguém Conhecido", "description": "x"}
	]`)

	result, err := svc.mergeMeasures(ctx, "u1", "c1", raw, "relatorio.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, []string{"Ninguém Conhecido"}, result.Skipped)

	class, err := classes.GetClass(ctx, "u1", "c1")
	require.NoError(t, err)
	measures := class.Students[1].Measures
	require.Len(t, measures, 2)
	assert.Equal(t, model.MeasureAdicional, measures[0].Type)
	assert.Equal(t, "relatorio.pdf", measures[0].SourceFile)
	// Unrecognized types default to Seletiva.
	assert.Equal(t, model.MeasureSeletiva, measures[1].Type)
}

func TestBuildPrompt(t *testing.T) {
	for _, mode := range []ImportMode{ImportRoster, ImportGrades, ImportSchedule, ImportMeasures} {
		instruction, schema := buildPrompt(mode)
		assert.NotEmpty(t, instruction, string(mode))
		assert.NotNil(t, schema, string(mode))
	}

	instruction, schema := buildPrompt(ImportMode("bogus"))
	assert.Empty(t, instruction)
	assert.Nil(t, schema)
}

// A merged page is one state update: a single undo removes the whole
// import, and a single redo restores it.
func TestImportService_MergeIsSingleUndoStep(t *testing.T) {
	classes, states := newTestClassService("u1", importData())
	svc := &ImportService{classes: classes, matcher: roster.TokenMatcher{}, log: zerolog.Nop()}
	ctx := context.Background()

	raw := json.RawMessage(`{
		"assessment_name": "Teste Global",
		"grades": [
			{"student_name": "Jose Antonio", "grade": 12},
			{"student_name": "Ana Costa", "grade": 16}
		]
	}`)

	result, err := svc.mergeGrades(ctx, "u1", "c1", raw, "pauta.jpg")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	data, ok := states.Undo("u1")
	require.True(t, ok)
	assert.Empty(t, data.Classes[0].Assessments)
	assert.Empty(t, data.Classes[0].Students[0].Grades)
	assert.Empty(t, data.Classes[0].Students[1].Grades)

	data, ok = states.Redo("u1")
	require.True(t, ok)
	require.Len(t, data.Classes[0].Assessments, 1)
	assert.Equal(t, 12.0, data.Classes[0].Students[0].Grades[data.Classes[0].Assessments[0].ID])

	// No further history: both grade rows landed in the one step above.
	_, ok = states.Undo("u1")
	require.True(t, ok)
	_, ok = states.Undo("u1")
	assert.False(t, ok)
}
