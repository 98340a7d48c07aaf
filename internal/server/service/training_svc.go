package service

import (
	"context"
	"time"

	"github.com/you/drivingschool-training/internal/domain"
	"github.com/you/drivingschool-training/internal/server/repository"
)

// EventPublisher is what TrainingSvc needs from pkg/mq. Events are
// best-effort: a lost notification never fails the operation.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type TrainingSvc struct {
	sessions    *repository.SessionRepo
	enrollments *repository.EnrollmentRepo
	resources   *repository.ResourceRepo
	pub         EventPublisher
}

func NewTrainingSvc(s *repository.SessionRepo, e *repository.EnrollmentRepo, r *repository.ResourceRepo, pub EventPublisher) *TrainingSvc {
	return &TrainingSvc{sessions: s, enrollments: e, resources: r, pub: pub}
}

func (s *TrainingSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, v)
}

func (s *TrainingSvc) CreateSession(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error) {
	if err := in.Validate(time.Now(), true); err != nil {
		return nil, err
	}
	ts, err := s.sessions.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "session.created", map[string]any{
		"session_id": ts.SessionID, "instructor_id": ts.InstructorID, "vehicle_id": ts.VehicleID,
		"date": ts.Date.Format("2006-01-02"), "time": ts.Time, "location": ts.Location,
	})
	return ts, nil
}

func (s *TrainingSvc) UpdateSession(ctx context.Context, id string, in domain.SessionInput) (*domain.TrainingSession, error) {
	if err := in.Validate(time.Now(), false); err != nil {
		return nil, err
	}
	ts, err := s.sessions.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "session.updated", map[string]any{"session_id": ts.SessionID})
	return ts, nil
}

func (s *TrainingSvc) UpdateSessionStatus(ctx context.Context, id string, to domain.SessionStatus) (*domain.TrainingSession, error) {
	ts, err := s.sessions.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	switch to {
	case domain.SessionCompleted:
		s.publish(ctx, "session.completed", map[string]any{"session_id": ts.SessionID})
	case domain.SessionCancelled:
		s.publish(ctx, "session.cancelled", map[string]any{"session_id": ts.SessionID})
	}
	return ts, nil
}

// CancelSession tombstones the session; the record is kept as cancelled.
func (s *TrainingSvc) CancelSession(ctx context.Context, id string) (*domain.TrainingSession, error) {
	return s.UpdateSessionStatus(ctx, id, domain.SessionCancelled)
}

func (s *TrainingSvc) GetSession(ctx context.Context, id string) (*domain.TrainingSession, error) {
	return s.sessions.ByID(ctx, id)
}

func (s *TrainingSvc) ListSessions(ctx context.Context, f repository.SessionFilter) ([]domain.TrainingSession, error) {
	return s.sessions.List(ctx, f)
}

func (s *TrainingSvc) Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error) {
	e, err := s.enrollments.Enroll(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "enrollment.created", map[string]any{
		"enrollment_id": e.EnrollmentID, "user_id": e.UserID, "session_id": e.SessionID,
	})
	return e, nil
}

func (s *TrainingSvc) ListEnrollmentsBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error) {
	return s.enrollments.ListBySession(ctx, sessionID)
}

func (s *TrainingSvc) UpdateEnrollmentStatus(ctx context.Context, id string, to domain.EnrollmentStatus) (*domain.Enrollment, error) {
	e, err := s.enrollments.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	if to == domain.EnrollmentCancelled {
		s.publish(ctx, "enrollment.cancelled", map[string]any{
			"enrollment_id": e.EnrollmentID, "user_id": e.UserID, "session_id": e.SessionID,
		})
	} else {
		s.publish(ctx, "enrollment.updated", map[string]any{
			"enrollment_id": e.EnrollmentID, "status": string(e.Status),
		})
	}
	return e, nil
}

func (s *TrainingSvc) CancelEnrollment(ctx context.Context, id string) (*domain.Enrollment, error) {
	return s.UpdateEnrollmentStatus(ctx, id, domain.EnrollmentCancelled)
}

func (s *TrainingSvc) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	return s.resources.ListInstructors(ctx)
}

func (s *TrainingSvc) CreateInstructor(ctx context.Context, in domain.Instructor) (*domain.Instructor, error) {
	if err := s.resources.CreateInstructor(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *TrainingSvc) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.resources.ListVehicles(ctx)
}

func (s *TrainingSvc) CreateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	if err := s.resources.CreateVehicle(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
