package domain

import "time"

type EnrollmentStatus string

const (
	EnrollmentConfirmed EnrollmentStatus = "confirmed"
	EnrollmentAttended  EnrollmentStatus = "attended"
	EnrollmentAbsent    EnrollmentStatus = "absent"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentConfirmed, EnrollmentAttended, EnrollmentAbsent, EnrollmentCancelled:
		return true
	}
	return false
}

// Counted reports whether the status occupies one of the session's capacity
// slots. Everything except cancelled holds a slot; marking a student absent
// does not free their seat.
func (s EnrollmentStatus) Counted() bool {
	return s.Valid() && s != EnrollmentCancelled
}

// Attendance reports whether the status is an attendance outcome.
func (s EnrollmentStatus) Attendance() bool {
	return s == EnrollmentAttended || s == EnrollmentAbsent
}

// CanTransition reports whether an enrollment may move from s to "to".
// cancelled is terminal. Attendance may be re-marked (attended <-> absent)
// until the session is completed; that rule lives with the session and is
// checked by callers.
func (s EnrollmentStatus) CanTransition(to EnrollmentStatus) bool {
	if s == EnrollmentCancelled || s == to {
		return false
	}
	switch s {
	case EnrollmentConfirmed:
		return to == EnrollmentAttended || to == EnrollmentAbsent || to == EnrollmentCancelled
	case EnrollmentAttended, EnrollmentAbsent:
		return to.Attendance() || to == EnrollmentCancelled
	}
	return false
}

// Enrollment links one student to one session.
type Enrollment struct {
	EnrollmentID string           `json:"enrollmentId" gorm:"primaryKey;column:enrollment_id"`
	UserID       string           `json:"userId" gorm:"index"`
	SessionID    string           `json:"sessionId" gorm:"index"`
	Status       EnrollmentStatus `json:"status" gorm:"index"`
	EnrolledAt   time.Time        `json:"enrollmentDate"`
}

// Transition moves the enrollment to the given status, rejecting moves the
// status machine does not allow.
func (e *Enrollment) Transition(to EnrollmentStatus) error {
	if !to.Valid() {
		return Preconditionf("unknown enrollment status %q", to)
	}
	if !e.Status.CanTransition(to) {
		return Preconditionf("enrollment %s cannot go from %s to %s", e.EnrollmentID, e.Status, to)
	}
	e.Status = to
	return nil
}
