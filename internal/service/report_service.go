package service

import (
	"context"

	"github.com/alextrocado/edumanage/internal/grading"
	"github.com/alextrocado/edumanage/internal/model"
)

// StudentSummary is one roster row in a class report. Average is the
// display form of the drop-lowest average ("-" when the student has no
// grades).
type StudentSummary struct {
	StudentID  string                    `json:"student_id"`
	Name       string                    `json:"name"`
	Average    string                    `json:"average"`
	Attendance grading.AttendanceSummary `json:"attendance"`
}

// AssessmentSummary is one assessment column in a class report.
type AssessmentSummary struct {
	AssessmentID string `json:"assessment_id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	ClassAverage string `json:"class_average"`
}

// ClassReport aggregates a whole class.
type ClassReport struct {
	ClassID     string                    `json:"class_id"`
	Name        string                    `json:"name"`
	Students    []StudentSummary          `json:"students"`
	Assessments []AssessmentSummary       `json:"assessments"`
	Attendance  grading.AttendanceSummary `json:"attendance"`
}

// StudentReport aggregates one student, optionally over a date range.
type StudentReport struct {
	StudentID  string                    `json:"student_id"`
	Name       string                    `json:"name"`
	Average    string                    `json:"average"`
	Grades     map[string]float64        `json:"grades,omitempty"`
	Attendance grading.AttendanceSummary `json:"attendance"`
	Measures   []model.Measure           `json:"measures,omitempty"`
}

// ReportService computes read-only aggregates over the state document.
type ReportService struct {
	states *StateService
}

// NewReportService creates a new ReportService.
func NewReportService(states *StateService) *ReportService {
	return &ReportService{states: states}
}

// ClassReport builds per-student and per-assessment aggregates for one class.
func (s *ReportService) ClassReport(ctx context.Context, userID, classID string) (*ClassReport, error) {
	data, err := s.states.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := data.FindClass(classID)
	if c == nil {
		return nil, ErrClassNotFound
	}

	report := &ClassReport{
		ClassID:    c.ID,
		Name:       c.Name,
		Attendance: grading.Summarize(grading.CollectRecords(c.Lessons, grading.RecordFilter{})),
	}

	for _, st := range c.Students {
		avg, ok := grading.StudentAverage(st, c.Assessments)
		records := grading.CollectRecords(c.Lessons, grading.RecordFilter{StudentID: st.ID})
		report.Students = append(report.Students, StudentSummary{
			StudentID:  st.ID,
			Name:       st.Name,
			Average:    grading.Display(avg, ok),
			Attendance: grading.Summarize(records),
		})
	}

	for _, a := range c.Assessments {
		avg, ok := grading.ClassAverage(c.Students, a.ID)
		report.Assessments = append(report.Assessments, AssessmentSummary{
			AssessmentID: a.ID,
			Name:         a.Name,
			Date:         a.Date,
			ClassAverage: grading.Display(avg, ok),
		})
	}

	return report, nil
}

// StudentReport builds one student's aggregates, with attendance optionally
// restricted to an inclusive date range.
func (s *ReportService) StudentReport(ctx context.Context, userID, classID, studentID, from, to string) (*StudentReport, error) {
	data, err := s.states.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := data.FindClass(classID)
	if c == nil {
		return nil, ErrClassNotFound
	}
	st := c.FindStudent(studentID)
	if st == nil {
		return nil, ErrStudentNotFound
	}

	avg, ok := grading.StudentAverage(*st, c.Assessments)
	records := grading.CollectRecords(c.Lessons, grading.RecordFilter{StudentID: st.ID, From: from, To: to})

	return &StudentReport{
		StudentID:  st.ID,
		Name:       st.Name,
		Average:    grading.Display(avg, ok),
		Grades:     st.Grades,
		Attendance: grading.Summarize(records),
		Measures:   st.Measures,
	}, nil
}
