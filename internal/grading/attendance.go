package grading

import "github.com/alextrocado/edumanage/internal/model"

// AttendanceSummary aggregates a set of attendance records. PresenceRate
// is a percentage (0–100). Empty input yields explicit zeros, not an error.
type AttendanceSummary struct {
	ParticipationAvg float64 `json:"participation_avg"`
	TPCAvg           float64 `json:"tpc_avg"`
	PresenceRate     float64 `json:"presence_rate"`
	Total            int     `json:"total"`
}

// RecordFilter narrows which records are collected. Zero values mean no
// filtering; From/To are inclusive ISO date bounds on the lesson date.
type RecordFilter struct {
	StudentID string
	From      string
	To        string
}

// CollectRecords flattens the attendance records of the given lessons,
// applying the filter.
func CollectRecords(lessons []model.Lesson, f RecordFilter) []model.AttendanceRecord {
	var out []model.AttendanceRecord
	for _, l := range lessons {
		if f.From != "" && l.Date < f.From {
			continue
		}
		if f.To != "" && l.Date > f.To {
			continue
		}
		for _, r := range l.Records {
			if f.StudentID != "" && r.StudentID != f.StudentID {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// Summarize computes independent averages over the records: mean
// participation, mean homework completion and presence rate. No weighting,
// no interpolation for missing lessons.
func Summarize(records []model.AttendanceRecord) AttendanceSummary {
	if len(records) == 0 {
		return AttendanceSummary{}
	}

	var participation, tpc, present int
	for _, r := range records {
		participation += r.Participation
		tpc += r.TPC
		if r.Status == model.StatusPresente {
			present++
		}
	}

	n := float64(len(records))
	return AttendanceSummary{
		ParticipationAvg: float64(participation) / n,
		TPCAvg:           float64(tpc) / n,
		PresenceRate:     float64(present) / n * 100,
		Total:            len(records),
	}
}
