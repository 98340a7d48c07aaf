package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/you/drivingschool-training/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSessions() []domain.TrainingSession {
	return []domain.TrainingSession{
		{SessionID: "S001", Date: day(2025, 6, 10), InstructorID: "I001", Status: domain.SessionPending, MaxCount: 4, CurrentCount: 2},
		{SessionID: "S002", Date: day(2025, 6, 1), InstructorID: "I002", Status: domain.SessionPending, MaxCount: 3, CurrentCount: 3},
		{SessionID: "S003", Date: day(2025, 5, 20), InstructorID: "I001", Status: domain.SessionCompleted, MaxCount: 2, CurrentCount: 2},
		{SessionID: "S004", Date: day(2025, 5, 1), InstructorID: "I001", Status: domain.SessionCancelled, MaxCount: 5, CurrentCount: 0},
	}
}

func ids(ss []domain.TrainingSession) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.SessionID
	}
	return out
}

func TestUpcoming(t *testing.T) {
	ss := sampleSessions()
	got := Upcoming(ss, day(2025, 6, 1))
	assert.Equal(t, []string{"S001", "S002"}, ids(got)) // inclusive of today

	got = Upcoming(ss, day(2025, 6, 2))
	assert.Equal(t, []string{"S001"}, ids(got))
}

func TestCompleted(t *testing.T) {
	got := Completed(sampleSessions())
	assert.Equal(t, []string{"S003"}, ids(got))
}

func TestAllIsIdentity(t *testing.T) {
	ss := sampleSessions()
	got := All(ss)
	assert.Equal(t, ss, got)
	// and a copy, not an alias
	got[0].SessionID = "mutated"
	assert.Equal(t, "S001", ss[0].SessionID)
}

func TestByInstructor(t *testing.T) {
	got := ByInstructor(sampleSessions(), "I001")
	assert.Equal(t, []string{"S001", "S003", "S004"}, ids(got))
}

func TestByDateRangeInclusive(t *testing.T) {
	got := ByDateRange(sampleSessions(), day(2025, 5, 20), day(2025, 6, 1))
	assert.Equal(t, []string{"S002", "S003"}, ids(got))
}

// upcoming is a subset of all; completed and upcoming never overlap.
func TestFilterLaws(t *testing.T) {
	ss := sampleSessions()
	all := All(ss)
	allSet := map[string]bool{}
	for _, s := range all {
		allSet[s.SessionID] = true
	}
	for _, today := range []time.Time{day(2025, 1, 1), day(2025, 6, 1), day(2030, 1, 1)} {
		up := Upcoming(ss, today)
		for _, s := range up {
			assert.True(t, allSet[s.SessionID])
		}
		upSet := map[string]bool{}
		for _, s := range up {
			upSet[s.SessionID] = true
		}
		for _, s := range Completed(ss) {
			assert.False(t, upSet[s.SessionID])
		}
	}
}

func TestInstructorReport(t *testing.T) {
	r := InstructorReport(sampleSessions(), "I001")
	assert.Equal(t, 3, r.Sessions)
	assert.Equal(t, 1, r.Completed)
	assert.Equal(t, 1, r.Pending)
	assert.Equal(t, 1, r.Cancelled)
	// cancelled sessions stay out of the capacity totals
	assert.Equal(t, 6, r.TotalCapacity)
	assert.Equal(t, 4, r.TotalEnrolled)
}
