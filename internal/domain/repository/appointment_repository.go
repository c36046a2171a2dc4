package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// AppointmentFilterParams contains filtering parameters for appointment queries
type AppointmentFilterParams struct {
	Pagination     *pagination.PaginationParams
	PetID          *uuid.UUID
	CustomerID     *uuid.UUID
	VeterinarianID *uuid.UUID
	Status         *enum.AppointmentStatus
	FromDate       *time.Time
	ToDate         *time.Time
}

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	List(ctx context.Context, params *AppointmentFilterParams) ([]entity.Appointment, int64, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindConflicts returns appointments for the veterinarian that overlap
	// the [start, end) window, excluding cancelled/no-show ones and, when
	// excludeID is non-nil, the appointment being rescheduled.
	FindConflicts(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error)
	CountForDate(ctx context.Context, date time.Time) (int64, error)
}
