package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/drivingschool-training/internal/domain"
)

var (
	ErrSessionFull      = errors.New("session_full")
	ErrAlreadyEnrolled  = errors.New("already_enrolled")
	ErrSessionNotOpen   = errors.New("session_not_open")
	ErrAttendanceFrozen = errors.New("attendance_frozen")
)

type EnrollmentRepo struct{ db *gorm.DB }

func NewEnrollmentRepo(db *gorm.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

func (r *EnrollmentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Enrollment{})
}

// Enroll creates an enrollment inside a txn that locks the session row, so
// the capacity check and the count increment cannot race. One slot per
// non-cancelled enrollment per student.
func (r *EnrollmentRepo) Enroll(ctx context.Context, userID, sessionID string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ts domain.TrainingSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ts, "session_id = ?", sessionID).Error; err != nil {
			return err
		}
		if ts.Status != domain.SessionPending {
			return ErrSessionNotOpen
		}
		if ts.Full() {
			return ErrSessionFull
		}
		var dup int64
		if err := tx.Model(&domain.Enrollment{}).
			Where("session_id = ? AND user_id = ? AND status <> ?", sessionID, userID, domain.EnrollmentCancelled).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyEnrolled
		}

		e = domain.Enrollment{
			EnrollmentID: uuid.NewString(),
			UserID:       userID,
			SessionID:    sessionID,
			Status:       domain.EnrollmentConfirmed,
			EnrolledAt:   time.Now().UTC(),
		}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		ts.CurrentCount++
		ts.UpdatedAt = time.Now().UTC()
		return tx.Save(&ts).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepo) ByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	if err := r.db.WithContext(ctx).First(&e, "enrollment_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListBySession returns every enrollment for the session, cancelled ones
// included; clients count them in their stats.
func (r *EnrollmentRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Enrollment, error) {
	var out []domain.Enrollment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("enrolled_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an enrollment through its status machine. Cancelling a
// slot-holding enrollment decrements the session count in the same txn;
// attendance marks are frozen once the session is completed.
func (r *EnrollmentRepo) UpdateStatus(ctx context.Context, id string, to domain.EnrollmentStatus) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, "enrollment_id = ?", id).Error; err != nil {
			return err
		}
		var ts domain.TrainingSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ts, "session_id = ?", e.SessionID).Error; err != nil {
			return err
		}
		if to.Attendance() && ts.Status == domain.SessionCompleted {
			return ErrAttendanceFrozen
		}
		prior := e.Status
		if err := e.Transition(to); err != nil {
			return err
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		if to == domain.EnrollmentCancelled && prior.Counted() && ts.CurrentCount > 0 {
			ts.CurrentCount--
			ts.UpdatedAt = time.Now().UTC()
			return tx.Save(&ts).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}
