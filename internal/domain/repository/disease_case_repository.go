package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// DiseaseCaseFilterParams contains filtering parameters for case queries
type DiseaseCaseFilterParams struct {
	Pagination  *pagination.PaginationParams
	DiseaseName string
	Status      *enum.CaseStatus
	City        string
	FromDate    *time.Time
	ToDate      *time.Time
}

// DiseaseCount is one row of the per-disease/per-city aggregation that
// feeds the outbreak analytics service
type DiseaseCount struct {
	DiseaseName string `json:"disease_name"`
	City        string `json:"city"`
	CaseCount   int64  `json:"case_count"`
}

// DiseaseCaseRepository defines the interface for disease case data operations
type DiseaseCaseRepository interface {
	Create(ctx context.Context, diseaseCase *entity.DiseaseCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiseaseCase, error)
	List(ctx context.Context, params *DiseaseCaseFilterParams) ([]entity.DiseaseCase, int64, error)
	Update(ctx context.Context, diseaseCase *entity.DiseaseCase) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDiseaseAndCity(ctx context.Context, since *time.Time) ([]DiseaseCount, error)
	CountActive(ctx context.Context) (int64, error)
}
