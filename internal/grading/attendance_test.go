package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextrocado/edumanage/internal/model"
)

func testLessons() []model.Lesson {
	return []model.Lesson{
		{
			ID: "l1", Date: "2025-01-06",
			Records: []model.AttendanceRecord{
				{StudentID: "s1", Status: model.StatusPresente, Participation: 4, TPC: 5},
				{StudentID: "s2", Status: model.StatusPresente, Participation: 2, TPC: 0},
			},
		},
		{
			ID: "l2", Date: "2025-01-13",
			Records: []model.AttendanceRecord{
				{StudentID: "s1", Status: model.StatusAusente},
				{StudentID: "s2", Status: model.StatusAtraso, Participation: 3, TPC: 1},
			},
		},
	}
}

func TestCollectRecords_NoFilter(t *testing.T) {
	records := CollectRecords(testLessons(), RecordFilter{})
	assert.Len(t, records, 4)
}

func TestCollectRecords_ByStudent(t *testing.T) {
	records := CollectRecords(testLessons(), RecordFilter{StudentID: "s1"})
	require.Len(t, records, 2)
	assert.Equal(t, model.StatusPresente, records[0].Status)
	assert.Equal(t, model.StatusAusente, records[1].Status)
}

func TestCollectRecords_ByDateRange(t *testing.T) {
	records := CollectRecords(testLessons(), RecordFilter{From: "2025-01-07"})
	assert.Len(t, records, 2)

	records = CollectRecords(testLessons(), RecordFilter{To: "2025-01-06"})
	assert.Len(t, records, 2)

	records = CollectRecords(testLessons(), RecordFilter{From: "2025-01-07", To: "2025-01-10"})
	assert.Empty(t, records)
}

func TestSummarize(t *testing.T) {
	// Presente, Presente, Ausente, Atraso: half the records count as present.
	s := Summarize(CollectRecords(testLessons(), RecordFilter{}))
	assert.Equal(t, 4, s.Total)
	assert.InDelta(t, 50.0, s.PresenceRate, 1e-9)
	assert.InDelta(t, 2.25, s.ParticipationAvg, 1e-9) // (4+2+0+3)/4
	assert.InDelta(t, 1.5, s.TPCAvg, 1e-9)            // (5+0+0+1)/4
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.PresenceRate)
	assert.Zero(t, s.ParticipationAvg)
	assert.Zero(t, s.TPCAvg)
}
