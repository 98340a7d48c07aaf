package domain

import "time"

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Terminal reports whether a session can never change status again.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// CanTransition reports whether a session may move from s to "to".
// Transitions are one-directional: pending may complete or cancel,
// nothing ever leaves a terminal status.
func (s SessionStatus) CanTransition(to SessionStatus) bool {
	return s == SessionPending && (to == SessionCompleted || to == SessionCancelled)
}

// TrainingSession is a scheduled practice event with an assigned vehicle,
// instructor and a fixed capacity. CurrentCount is derived state: the number
// of enrollments currently occupying a slot.
type TrainingSession struct {
	SessionID    string        `json:"sessionId" gorm:"primaryKey;column:session_id"`
	Date         time.Time     `json:"date" gorm:"index"`
	Time         string        `json:"time"` // HH:mm
	Location     string        `json:"location"`
	VehicleID    string        `json:"vehicleId" gorm:"index"`
	InstructorID string        `json:"instructorId" gorm:"index"`
	MaxCount     int           `json:"maxCount"`
	CurrentCount int           `json:"currentCount"`
	Status       SessionStatus `json:"status" gorm:"index"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (ts *TrainingSession) Full() bool { return ts.CurrentCount >= ts.MaxCount }

// Transition moves the session to the given status, rejecting moves the
// status machine does not allow.
func (ts *TrainingSession) Transition(to SessionStatus) error {
	if !to.Valid() {
		return Preconditionf("unknown session status %q", to)
	}
	if !ts.Status.CanTransition(to) {
		return Preconditionf("session %s cannot go from %s to %s", ts.SessionID, ts.Status, to)
	}
	ts.Status = to
	return nil
}

// SameDay reports whether the session falls on the given calendar day (UTC).
func (ts *TrainingSession) SameDay(day time.Time) bool {
	y1, m1, d1 := ts.Date.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates t to midnight UTC; session dates are calendar dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
