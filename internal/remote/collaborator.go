package remote

import (
	"context"
	"time"

	"github.com/you/drivingschool-training/internal/domain"
)

// Collaborator is the backing service that persists sessions and enrollments.
// It is the consistency authority: the stores treat its responses as the
// truth and reconcile their caches from what it echoes back.
type Collaborator interface {
	ListSessions(ctx context.Context) ([]domain.TrainingSession, error)
	ListSessionsByInstructor(ctx context.Context, instructorID string) ([]domain.TrainingSession, error)
	ListSessionsByDateRange(ctx context.Context, start, end time.Time) ([]domain.TrainingSession, error)
	// ListAvailableSessions returns pending sessions with free slots.
	ListAvailableSessions(ctx context.Context) ([]domain.TrainingSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error)
	CreateSession(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error)
	UpdateSession(ctx context.Context, sessionID string, in domain.SessionInput) (*domain.TrainingSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) (*domain.TrainingSession, error)
	// CancelSession tombstones the session as cancelled; records are never
	// hard-deleted.
	CancelSession(ctx context.Context, sessionID string) (*domain.TrainingSession, error)

	Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error)
	ListEnrollmentsBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus) (*domain.Enrollment, error)
	CancelEnrollment(ctx context.Context, enrollmentID string) (*domain.Enrollment, error)

	ListInstructors(ctx context.Context) ([]domain.Instructor, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}
