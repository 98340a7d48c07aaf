package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/drivingschool-training/internal/domain"
)

// ResourceRepo owns the instructor and vehicle reference collections that
// sessions point at.
type ResourceRepo struct{ db *gorm.DB }

func NewResourceRepo(db *gorm.DB) *ResourceRepo {
	return &ResourceRepo{db: db}
}

func (r *ResourceRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Instructor{}, &domain.Vehicle{})
}

func (r *ResourceRepo) CreateInstructor(ctx context.Context, in *domain.Instructor) error {
	if in.InstructorID == "" {
		in.InstructorID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *ResourceRepo) ListInstructors(ctx context.Context) ([]domain.Instructor, error) {
	var out []domain.Instructor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ResourceRepo) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.VehicleID == "" {
		v.VehicleID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ResourceRepo) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	if err := r.db.WithContext(ctx).Order("plate_no ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
