package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	domainRepo "github.com/pawmark/vetcare-api/internal/domain/repository"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Customer").
		Preload("Veterinarian").
		First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appointment, err
}

func (r *appointmentRepository) List(ctx context.Context, params *domainRepo.AppointmentFilterParams) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Appointment{})

	if params.PetID != nil {
		query = query.Where("pet_id = ?", *params.PetID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.VeterinarianID != nil {
		query = query.Where("veterinarian_id = ?", *params.VeterinarianID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.FromDate != nil {
		query = query.Where("scheduled_at >= ?", *params.FromDate)
	}
	if params.ToDate != nil {
		query = query.Where("scheduled_at <= ?", *params.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Pet").
		Preload("Customer").
		Preload("Veterinarian").
		Order("scheduled_at ASC").
		Find(&appointments).Error

	return appointments, total, err
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Appointment{}, "id = ?", id).Error
}

// FindConflicts returns the veterinarian's active appointments overlapping the
// [start, end) window. Two slots overlap when each starts before the other
// ends.
func (r *appointmentRepository) FindConflicts(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	var conflicts []entity.Appointment

	query := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("veterinarian_id = ?", vetID).
		Where("status NOT IN ?", []enum.AppointmentStatus{
			enum.AppointmentStatusCancelled,
			enum.AppointmentStatusNoShow,
		}).
		Where("scheduled_at < ?", end).
		Where("scheduled_at + (duration_minutes * interval '1 minute') > ?", start)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	err := query.Order("scheduled_at ASC").Find(&conflicts).Error
	return conflicts, err
}

func (r *appointmentRepository) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("scheduled_at >= ? AND scheduled_at < ?", dayStart, dayEnd).
		Where("status NOT IN ?", []enum.AppointmentStatus{
			enum.AppointmentStatusCancelled,
			enum.AppointmentStatusNoShow,
		}).
		Count(&count).Error

	return count, err
}
