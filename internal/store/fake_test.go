package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/you/drivingschool-training/internal/domain"
)

// fakeRemote is an in-memory collaborator with the server's authoritative
// semantics: capacity and duplicate checks, one-directional transitions,
// cancel tombstones.
type fakeRemote struct {
	mu          sync.Mutex
	sessions    map[string]*domain.TrainingSession
	sessionIDs  []string
	enrollments map[string]*domain.Enrollment
	enrollIDs   []string
	nextID      int
	failWith    error // when set, the next call fails with it and clears it
	calls       int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		sessions:    map[string]*domain.TrainingSession{},
		enrollments: map[string]*domain.Enrollment{},
	}
}

func (f *fakeRemote) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

func (f *fakeRemote) check() error {
	f.calls++
	if f.failWith != nil {
		err := f.failWith
		f.failWith = nil
		return err
	}
	return nil
}

func (f *fakeRemote) seed(ts domain.TrainingSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := ts
	f.sessions[ts.SessionID] = &cp
	f.sessionIDs = append(f.sessionIDs, ts.SessionID)
}

func (f *fakeRemote) ListSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	out := make([]domain.TrainingSession, 0, len(f.sessionIDs))
	for _, id := range f.sessionIDs {
		out = append(out, *f.sessions[id])
	}
	return out, nil
}

func (f *fakeRemote) ListSessionsByInstructor(ctx context.Context, instructorID string) ([]domain.TrainingSession, error) {
	all, err := f.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if s.InstructorID == instructorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRemote) ListSessionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.TrainingSession, error) {
	all, err := f.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		d := domain.DateOnly(s.Date)
		if !d.Before(domain.DateOnly(start)) && !d.After(domain.DateOnly(end)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRemote) ListAvailableSessions(ctx context.Context) ([]domain.TrainingSession, error) {
	all, err := f.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if s.Status == domain.SessionPending && !s.Full() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRemote) GetSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	ts, ok := f.sessions[sessionID]
	if !ok {
		return nil, &domain.RemoteError{Op: "get session", Status: 404, Err: fmt.Errorf("not found")}
	}
	cp := *ts
	return &cp, nil
}

func (f *fakeRemote) CreateSession(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	f.nextID++
	ts := &domain.TrainingSession{
		SessionID:    fmt.Sprintf("S%03d", f.nextID),
		Date:         domain.DateOnly(in.Date),
		Time:         in.Time,
		Location:     in.Location,
		VehicleID:    in.VehicleID,
		InstructorID: in.InstructorID,
		MaxCount:     in.MaxCount,
		Status:       domain.SessionPending,
	}
	f.sessions[ts.SessionID] = ts
	f.sessionIDs = append(f.sessionIDs, ts.SessionID)
	cp := *ts
	return &cp, nil
}

func (f *fakeRemote) UpdateSession(ctx context.Context, sessionID string, in domain.SessionInput) (*domain.TrainingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	ts, ok := f.sessions[sessionID]
	if !ok {
		return nil, &domain.RemoteError{Op: "update session", Status: 404, Err: fmt.Errorf("not found")}
	}
	ts.Date = domain.DateOnly(in.Date)
	ts.Time = in.Time
	ts.Location = in.Location
	ts.VehicleID = in.VehicleID
	ts.InstructorID = in.InstructorID
	ts.MaxCount = in.MaxCount
	cp := *ts
	return &cp, nil
}

func (f *fakeRemote) UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) (*domain.TrainingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	ts, ok := f.sessions[sessionID]
	if !ok {
		return nil, &domain.RemoteError{Op: "update session status", Status: 404, Err: fmt.Errorf("not found")}
	}
	if err := ts.Transition(status); err != nil {
		return nil, &domain.RemoteError{Op: "update session status", Status: 409, Err: err}
	}
	cp := *ts
	return &cp, nil
}

func (f *fakeRemote) CancelSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	return f.UpdateSessionStatus(ctx, sessionID, domain.SessionCancelled)
}

func (f *fakeRemote) Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	ts, ok := f.sessions[sessionID]
	if !ok {
		return nil, &domain.RemoteError{Op: "enroll", Status: 404, Err: fmt.Errorf("not found")}
	}
	if ts.Status != domain.SessionPending || ts.Full() {
		return nil, &domain.RemoteError{Op: "enroll", Status: 409, Err: fmt.Errorf("session not open or full")}
	}
	for _, id := range f.enrollIDs {
		e := f.enrollments[id]
		if e.SessionID == sessionID && e.UserID == userID && e.Status.Counted() {
			return nil, &domain.RemoteError{Op: "enroll", Status: 409, Err: fmt.Errorf("already enrolled")}
		}
	}
	f.nextID++
	e := &domain.Enrollment{
		EnrollmentID: fmt.Sprintf("E%03d", f.nextID),
		UserID:       userID,
		SessionID:    sessionID,
		Status:       domain.EnrollmentConfirmed,
		EnrolledAt:   time.Now().UTC(),
	}
	f.enrollments[e.EnrollmentID] = e
	f.enrollIDs = append(f.enrollIDs, e.EnrollmentID)
	ts.CurrentCount++
	cp := *e
	return &cp, nil
}

func (f *fakeRemote) ListEnrollmentsBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	var out []domain.Enrollment
	for _, id := range f.enrollIDs {
		if f.enrollments[id].SessionID == sessionID {
			out = append(out, *f.enrollments[id])
		}
	}
	return out, nil
}

func (f *fakeRemote) UpdateEnrollmentStatus(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus) (*domain.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check(); err != nil {
		return nil, err
	}
	e, ok := f.enrollments[enrollmentID]
	if !ok {
		return nil, &domain.RemoteError{Op: "update enrollment status", Status: 404, Err: fmt.Errorf("not found")}
	}
	prior := e.Status
	if err := e.Transition(status); err != nil {
		return nil, &domain.RemoteError{Op: "update enrollment status", Status: 409, Err: err}
	}
	if status == domain.EnrollmentCancelled && prior.Counted() {
		if ts, ok := f.sessions[e.SessionID]; ok && ts.CurrentCount > 0 {
			ts.CurrentCount--
		}
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRemote) CancelEnrollment(ctx context.Context, enrollmentID string) (*domain.Enrollment, error) {
	return f.UpdateEnrollmentStatus(ctx, enrollmentID, domain.EnrollmentCancelled)
}

func (f *fakeRemote) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	return []domain.Instructor{{InstructorID: "I001", Name: "A. Silva"}}, nil
}

func (f *fakeRemote) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return []domain.Vehicle{{VehicleID: "V001", PlateNo: "CAB-1234"}}, nil
}
