package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// MedicalRecordFilterParams contains filtering parameters for record queries
type MedicalRecordFilterParams struct {
	Pagination       *pagination.PaginationParams
	PetID            *uuid.UUID
	VeterinarianID   *uuid.UUID
	VaccinationsOnly bool
	FromDate         *time.Time
	ToDate           *time.Time
}

// MedicalRecordRepository defines the interface for medical record data operations
type MedicalRecordRepository interface {
	Create(ctx context.Context, record *entity.MedicalRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MedicalRecord, error)
	List(ctx context.Context, params *MedicalRecordFilterParams) ([]entity.MedicalRecord, int64, error)
	ListByPet(ctx context.Context, petID uuid.UUID) ([]entity.MedicalRecord, error)
	Update(ctx context.Context, record *entity.MedicalRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
