// Package filter derives named views over a session collection. Everything
// here is a pure function: no hidden state, safe to re-run on every poll.
package filter

import (
	"time"

	"github.com/you/drivingschool-training/internal/domain"
)

// Upcoming returns pending sessions on or after the given day.
func Upcoming(ss []domain.TrainingSession, today time.Time) []domain.TrainingSession {
	day := domain.DateOnly(today)
	out := make([]domain.TrainingSession, 0, len(ss))
	for _, s := range ss {
		if s.Status == domain.SessionPending && !domain.DateOnly(s.Date).Before(day) {
			out = append(out, s)
		}
	}
	return out
}

// Completed returns sessions that have been held.
func Completed(ss []domain.TrainingSession) []domain.TrainingSession {
	out := make([]domain.TrainingSession, 0, len(ss))
	for _, s := range ss {
		if s.Status == domain.SessionCompleted {
			out = append(out, s)
		}
	}
	return out
}

// All returns a copy of the input; the identity view.
func All(ss []domain.TrainingSession) []domain.TrainingSession {
	out := make([]domain.TrainingSession, len(ss))
	copy(out, ss)
	return out
}

// ByInstructor returns the sessions assigned to one instructor.
func ByInstructor(ss []domain.TrainingSession, instructorID string) []domain.TrainingSession {
	out := make([]domain.TrainingSession, 0, len(ss))
	for _, s := range ss {
		if s.InstructorID == instructorID {
			out = append(out, s)
		}
	}
	return out
}

// ByDateRange returns sessions with start <= date <= end, bounds inclusive,
// compared as calendar days.
func ByDateRange(ss []domain.TrainingSession, start, end time.Time) []domain.TrainingSession {
	from, to := domain.DateOnly(start), domain.DateOnly(end)
	out := make([]domain.TrainingSession, 0, len(ss))
	for _, s := range ss {
		d := domain.DateOnly(s.Date)
		if !d.Before(from) && !d.After(to) {
			out = append(out, s)
		}
	}
	return out
}
