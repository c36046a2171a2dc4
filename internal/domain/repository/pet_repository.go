package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// PetFilterParams contains filtering parameters for pet queries
type PetFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	Species    string
}

// PetRepository defines the interface for pet data operations
type PetRepository interface {
	Create(ctx context.Context, pet *entity.Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Pet, error)
	List(ctx context.Context, params *PetFilterParams) ([]entity.Pet, int64, error)
	Update(ctx context.Context, pet *entity.Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
}
