package filter

import "github.com/you/drivingschool-training/internal/domain"

// Report summarizes an instructor's sessions: the numbers that go on their
// activity report. Rendering (PDF or otherwise) is someone else's problem.
type Report struct {
	InstructorID  string
	Sessions      int
	Completed     int
	Pending       int
	Cancelled     int
	TotalCapacity int
	TotalEnrolled int
}

// InstructorReport aggregates over the instructor's sessions. Cancelled
// sessions count toward Sessions/Cancelled but not toward capacity totals.
func InstructorReport(ss []domain.TrainingSession, instructorID string) Report {
	r := Report{InstructorID: instructorID}
	for _, s := range ByInstructor(ss, instructorID) {
		r.Sessions++
		switch s.Status {
		case domain.SessionCompleted:
			r.Completed++
		case domain.SessionPending:
			r.Pending++
		case domain.SessionCancelled:
			r.Cancelled++
			continue
		}
		r.TotalCapacity += s.MaxCount
		r.TotalEnrolled += s.CurrentCount
	}
	return r
}
