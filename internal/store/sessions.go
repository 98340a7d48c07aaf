package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/you/drivingschool-training/internal/domain"
	"github.com/you/drivingschool-training/internal/remote"
)

// Scope selects which sessions a SessionStore sees. An empty scope is the
// admin/student view (all sessions); an instructor scope narrows listing to
// their own sessions.
type Scope struct {
	InstructorID string
}

// SessionStore holds the authoritative local view of sessions for one actor,
// synchronized against the remote collaborator. It never mutates its cache
// beyond reflecting what the collaborator echoes back, and leaves the cache
// untouched when a call fails.
type SessionStore struct {
	remote remote.Collaborator
	scope  Scope
	now    func() time.Time

	mu       sync.Mutex
	sessions []domain.TrainingSession
	loading  bool
	err      error
}

func NewSessionStore(rc remote.Collaborator, scope Scope) *SessionStore {
	return &SessionStore{remote: rc, scope: scope, now: time.Now}
}

// Sessions returns a snapshot of the cache, sorted by date descending.
func (s *SessionStore) Sessions() []domain.TrainingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TrainingSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Loading reports whether a remote call is in flight. The store does not
// serialize operations itself; the UI uses this to disable duplicate
// triggers, and the collaborator arbitrates any race that slips through.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error recorded by the last Refresh, if any.
func (s *SessionStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SessionStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *SessionStore) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Refresh repopulates the cache from the collaborator according to the
// store's scope. On failure the previous cache is kept and the error is
// recorded; callers keep showing stale data with an error flag.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.begin()
	defer s.end()

	var (
		list []domain.TrainingSession
		err  error
	)
	if s.scope.InstructorID != "" {
		list, err = s.remote.ListSessionsByInstructor(ctx, s.scope.InstructorID)
	} else {
		list, err = s.remote.ListSessions(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return err
	}
	sortByDateDesc(list)
	s.sessions = list
	s.err = nil
	return nil
}

// Create validates the input, persists it remotely and inserts the echoed
// session (server-assigned ID, pending, zero enrollment) into the cache.
func (s *SessionStore) Create(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error) {
	if err := in.Validate(s.now(), true); err != nil {
		return nil, err
	}
	s.begin()
	defer s.end()

	created, err := s.remote.CreateSession(ctx, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, *created)
	sortByDateDesc(s.sessions)
	out := *created
	return &out, nil
}

// Update edits a pending session. Edits of completed or cancelled sessions
// are rejected here, not left to the UI.
func (s *SessionStore) Update(ctx context.Context, sessionID string, in domain.SessionInput) (*domain.TrainingSession, error) {
	cached, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if cached.Status != domain.SessionPending {
		return nil, domain.Preconditionf("session %s is %s and can no longer be edited", sessionID, cached.Status)
	}
	if err := in.Validate(s.now(), false); err != nil {
		return nil, err
	}
	s.begin()
	defer s.end()

	updated, err := s.remote.UpdateSession(ctx, sessionID, in)
	if err != nil {
		return nil, err
	}
	s.replace(*updated)
	out := *updated
	return &out, nil
}

// Complete transitions a pending session to completed. Completing a session
// that is already completed is a no-op returning the cached entry; a
// cancelled session cannot be completed.
func (s *SessionStore) Complete(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	cached, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if cached.Status == domain.SessionCompleted {
		return cached, nil
	}
	if !cached.Status.CanTransition(domain.SessionCompleted) {
		return nil, domain.Preconditionf("session %s is %s and cannot be completed", sessionID, cached.Status)
	}
	s.begin()
	defer s.end()

	updated, err := s.remote.UpdateSessionStatus(ctx, sessionID, domain.SessionCompleted)
	if err != nil {
		return nil, err
	}
	s.replace(*updated)
	out := *updated
	return &out, nil
}

// Cancel marks a pending session cancelled. The record stays in the cache as
// a tombstone; views filter it out as needed.
func (s *SessionStore) Cancel(ctx context.Context, sessionID string) (*domain.TrainingSession, error) {
	cached, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if !cached.Status.CanTransition(domain.SessionCancelled) {
		return nil, domain.Preconditionf("session %s is %s and cannot be cancelled", sessionID, cached.Status)
	}
	s.begin()
	defer s.end()

	cancelled, err := s.remote.CancelSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.replace(*cancelled)
	out := *cancelled
	return &out, nil
}

func (s *SessionStore) lookup(sessionID string) (*domain.TrainingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].SessionID == sessionID {
			out := s.sessions[i]
			return &out, nil
		}
	}
	return nil, domain.Preconditionf("session %s is not in the current view", sessionID)
}

func (s *SessionStore) replace(ts domain.TrainingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].SessionID == ts.SessionID {
			s.sessions[i] = ts
			return
		}
	}
	s.sessions = append(s.sessions, ts)
	sortByDateDesc(s.sessions)
}

// sortByDateDesc orders newest first; same-day sessions keep the order the
// collaborator returned them in.
func sortByDateDesc(ss []domain.TrainingSession) {
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].Date.After(ss[j].Date)
	})
}
