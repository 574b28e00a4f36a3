// Package grading computes grade and attendance aggregates over a class's
// in-memory records. All functions are pure and operate on a 0–20 grade
// scale after normalization.
package grading

import (
	"math"
	"strconv"

	"github.com/alextrocado/edumanage/internal/model"
)

// Normalize maps habitual 0–200 scale entries back onto the 0–20 scale:
// any value greater than 20 is divided by 10, once. No other clamping is
// applied. Every grade entry point (manual or imported) must pass through
// here before storage.
func Normalize(v float64) float64 {
	if v > 20 {
		return v / 10
	}
	return v
}

// StudentAverage computes a student's overall average across the class's
// assessments, in assessment order, skipping assessments without a
// recorded grade. With five or more grades the single lowest grade among
// all but the most recent one is dropped before averaging. The second
// return is false when the student has no grades at all.
func StudentAverage(s model.Student, assessments []model.Assessment) (float64, bool) {
	var valid []float64
	for _, a := range assessments {
		if g, ok := s.Grades[a.ID]; ok {
			valid = append(valid, g)
		}
	}
	if len(valid) == 0 {
		return 0, false
	}

	if len(valid) >= 5 {
		last := valid[len(valid)-1]
		rest := valid[:len(valid)-1]

		minIdx := 0
		for i, g := range rest {
			if g < rest[minIdx] {
				minIdx = i
			}
		}

		sum := last
		for i, g := range rest {
			if i == minIdx {
				continue
			}
			sum += g
		}
		return sum / float64(len(valid)-1), true
	}

	return mean(valid), true
}

// ClassAverage computes the mean grade for one assessment across all
// students that have a grade recorded for it. The second return is false
// when nobody has a grade.
func ClassAverage(students []model.Student, assessmentID string) (float64, bool) {
	var grades []float64
	for _, s := range students {
		if g, ok := s.Grades[assessmentID]; ok {
			grades = append(grades, g)
		}
	}
	if len(grades) == 0 {
		return 0, false
	}
	return mean(grades), true
}

// Display renders an average with one decimal place, or "-" for no data.
// Internal computation keeps full precision; rounding happens here only.
func Display(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
