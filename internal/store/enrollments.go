package store

import (
	"context"
	"sync"

	"github.com/you/drivingschool-training/internal/domain"
	"github.com/you/drivingschool-training/internal/remote"
)

// EnrollmentStore manages the enrollments of a single session and keeps the
// session's slot count consistent with them. Like SessionStore it reconciles
// from the collaborator's echoes and never partially mutates on failure.
type EnrollmentStore struct {
	remote remote.Collaborator

	mu          sync.Mutex
	sessionID   string
	session     *domain.TrainingSession
	enrollments []domain.Enrollment
	loading     bool
	err         error
}

func NewEnrollmentStore(rc remote.Collaborator) *EnrollmentStore {
	return &EnrollmentStore{remote: rc}
}

// Session returns a snapshot of the loaded session, or nil before Load.
func (s *EnrollmentStore) Session() *domain.TrainingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	out := *s.session
	return &out
}

// Enrollments returns a snapshot of the visible enrollments.
func (s *EnrollmentStore) Enrollments() []domain.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Enrollment, len(s.enrollments))
	copy(out, s.enrollments)
	return out
}

func (s *EnrollmentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *EnrollmentStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *EnrollmentStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *EnrollmentStore) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Load fetches the session detail and its enrollment list. On failure the
// previous data stays visible and the error is recorded.
func (s *EnrollmentStore) Load(ctx context.Context, sessionID string) error {
	s.begin()
	defer s.end()

	sess, err := s.remote.GetSession(ctx, sessionID)
	if err == nil {
		var list []domain.Enrollment
		list, err = s.remote.ListEnrollmentsBySession(ctx, sessionID)
		if err == nil {
			s.mu.Lock()
			s.sessionID = sessionID
			s.session = sess
			s.enrollments = list
			s.err = nil
			s.mu.Unlock()
			return nil
		}
	}

	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

// Enroll adds a student to the loaded session. Capacity and duplicates are
// guarded here for immediate feedback; the collaborator re-checks and stays
// the source of truth.
func (s *EnrollmentStore) Enroll(ctx context.Context, userID string) (*domain.Enrollment, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, domain.Preconditionf("no session loaded")
	}
	if s.session.Status != domain.SessionPending {
		reason := s.session.Status
		s.mu.Unlock()
		return nil, domain.Preconditionf("session is %s and no longer accepts enrollments", reason)
	}
	if s.session.Full() {
		s.mu.Unlock()
		return nil, domain.Preconditionf("session is full (%d/%d)", s.session.CurrentCount, s.session.MaxCount)
	}
	for i := range s.enrollments {
		if s.enrollments[i].UserID == userID && s.enrollments[i].Status.Counted() {
			s.mu.Unlock()
			return nil, domain.Preconditionf("student %s is already enrolled", userID)
		}
	}
	sessionID := s.sessionID
	s.mu.Unlock()

	s.begin()
	defer s.end()
	created, err := s.remote.Enroll(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.enrollments = append(s.enrollments, *created)
	if s.session != nil {
		s.session.CurrentCount++
	}
	s.mu.Unlock()
	out := *created
	return &out, nil
}

// UpdateAttendance marks a student attended or absent. Attendance can be
// re-marked until the session is completed; it never changes the slot count.
func (s *EnrollmentStore) UpdateAttendance(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus) (*domain.Enrollment, error) {
	if !status.Attendance() {
		return nil, domain.Preconditionf("%q is not an attendance status", status)
	}
	s.mu.Lock()
	if s.session != nil && s.session.Status == domain.SessionCompleted {
		s.mu.Unlock()
		return nil, domain.Preconditionf("session is completed; attendance is frozen")
	}
	cur, idx := s.find(enrollmentID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.Preconditionf("enrollment %s is not in the current view", enrollmentID)
	}
	if !cur.Status.CanTransition(status) {
		s.mu.Unlock()
		return nil, domain.Preconditionf("enrollment %s cannot go from %s to %s", enrollmentID, cur.Status, status)
	}
	s.mu.Unlock()

	s.begin()
	defer s.end()
	updated, err := s.remote.UpdateEnrollmentStatus(ctx, enrollmentID, status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, i := s.find(enrollmentID); i >= 0 {
		s.enrollments[i] = *updated
	}
	s.mu.Unlock()
	out := *updated
	return &out, nil
}

// Remove cancels an enrollment and drops it from the visible list. The slot
// count only goes down if the enrollment was actually holding a slot, so
// removing an already-cancelled entry never double-frees.
func (s *EnrollmentStore) Remove(ctx context.Context, enrollmentID string) error {
	s.mu.Lock()
	cur, idx := s.find(enrollmentID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Preconditionf("enrollment %s is not in the current view", enrollmentID)
	}
	prior := cur.Status
	s.mu.Unlock()

	// already cancelled server-side: just drop it from view, free nothing
	if !prior.Counted() {
		s.mu.Lock()
		if _, i := s.find(enrollmentID); i >= 0 {
			s.enrollments = append(s.enrollments[:i], s.enrollments[i+1:]...)
		}
		s.mu.Unlock()
		return nil
	}

	s.begin()
	defer s.end()
	if _, err := s.remote.CancelEnrollment(ctx, enrollmentID); err != nil {
		return err
	}

	s.mu.Lock()
	if _, i := s.find(enrollmentID); i >= 0 {
		s.enrollments = append(s.enrollments[:i], s.enrollments[i+1:]...)
	}
	if prior.Counted() && s.session != nil && s.session.CurrentCount > 0 {
		s.session.CurrentCount--
	}
	s.mu.Unlock()
	return nil
}

// SessionStats summarizes the visible enrollments.
type SessionStats struct {
	Total     int
	Confirmed int
	Attended  int
	Absent    int
	Cancelled int
	// AttendanceRate is attended/(attended+absent) as a percentage,
	// 0 when nothing has been marked yet.
	AttendanceRate float64
}

// Stats is a pure read over the cache. It never fails.
func (s *EnrollmentStore) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SessionStats{Total: len(s.enrollments)}
	for i := range s.enrollments {
		switch s.enrollments[i].Status {
		case domain.EnrollmentConfirmed:
			st.Confirmed++
		case domain.EnrollmentAttended:
			st.Attended++
		case domain.EnrollmentAbsent:
			st.Absent++
		case domain.EnrollmentCancelled:
			st.Cancelled++
		}
	}
	if marked := st.Attended + st.Absent; marked > 0 {
		st.AttendanceRate = float64(st.Attended) / float64(marked) * 100
	}
	return st
}

// find returns a copy of the enrollment and its index, or (zero, -1).
// Callers must hold s.mu.
func (s *EnrollmentStore) find(enrollmentID string) (domain.Enrollment, int) {
	for i := range s.enrollments {
		if s.enrollments[i].EnrollmentID == enrollmentID {
			return s.enrollments[i], i
		}
	}
	return domain.Enrollment{}, -1
}
