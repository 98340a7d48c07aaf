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

var ErrNotPending = errors.New("session_not_pending")

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.TrainingSession{})
}

func (r *SessionRepo) Create(ctx context.Context, in domain.SessionInput) (*domain.TrainingSession, error) {
	now := time.Now().UTC()
	ts := domain.TrainingSession{
		SessionID:    uuid.NewString(),
		Date:         domain.DateOnly(in.Date),
		Time:         in.Time,
		Location:     in.Location,
		VehicleID:    in.VehicleID,
		InstructorID: in.InstructorID,
		MaxCount:     in.MaxCount,
		CurrentCount: 0,
		Status:       domain.SessionPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.WithContext(ctx).Create(&ts).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *SessionRepo) ByID(ctx context.Context, id string) (*domain.TrainingSession, error) {
	var ts domain.TrainingSession
	if err := r.db.WithContext(ctx).First(&ts, "session_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

// SessionFilter narrows List. Zero values mean "no constraint".
type SessionFilter struct {
	InstructorID  string
	From, To      time.Time
	AvailableOnly bool
}

func (r *SessionRepo) List(ctx context.Context, f SessionFilter) ([]domain.TrainingSession, error) {
	qb := r.db.WithContext(ctx).Model(&domain.TrainingSession{})
	if f.InstructorID != "" {
		qb = qb.Where("instructor_id = ?", f.InstructorID)
	}
	if !f.From.IsZero() {
		qb = qb.Where("date >= ?", domain.DateOnly(f.From))
	}
	if !f.To.IsZero() {
		qb = qb.Where("date <= ?", domain.DateOnly(f.To))
	}
	if f.AvailableOnly {
		qb = qb.Where("status = ? AND current_count < max_count", domain.SessionPending)
	}
	var out []domain.TrainingSession
	if err := qb.Order("date DESC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update edits a session's schedulable fields inside a txn; only pending
// sessions may change.
func (r *SessionRepo) Update(ctx context.Context, id string, in domain.SessionInput) (*domain.TrainingSession, error) {
	var ts domain.TrainingSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ts, "session_id = ?", id).Error; err != nil {
			return err
		}
		if ts.Status != domain.SessionPending {
			return ErrNotPending
		}
		ts.Date = domain.DateOnly(in.Date)
		ts.Time = in.Time
		ts.Location = in.Location
		ts.VehicleID = in.VehicleID
		ts.InstructorID = in.InstructorID
		ts.MaxCount = in.MaxCount
		ts.UpdatedAt = time.Now().UTC()
		return tx.Save(&ts).Error
	})
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// UpdateStatus moves a session through its status machine inside a txn.
// Invalid moves surface as PreconditionError from the domain transition.
func (r *SessionRepo) UpdateStatus(ctx context.Context, id string, to domain.SessionStatus) (*domain.TrainingSession, error) {
	var ts domain.TrainingSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ts, "session_id = ?", id).Error; err != nil {
			return err
		}
		if err := ts.Transition(to); err != nil {
			return err
		}
		ts.UpdatedAt = time.Now().UTC()
		return tx.Save(&ts).Error
	})
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
