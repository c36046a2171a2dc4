package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	domainRepo "github.com/pawmark/vetcare-api/internal/domain/repository"
)

type petRepository struct {
	db *gorm.DB
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *gorm.DB) domainRepo.PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) Create(ctx context.Context, pet *entity.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *petRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Pet, error) {
	var pet entity.Pet
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&pet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pet, err
}

func (r *petRepository) List(ctx context.Context, params *domainRepo.PetFilterParams) ([]entity.Pet, int64, error) {
	var pets []entity.Pet
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Pet{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR microchip_no ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.Species != "" {
		query = query.Where("species = ?", params.Species)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("name ASC").
		Find(&pets).Error

	return pets, total, err
}

func (r *petRepository) Update(ctx context.Context, pet *entity.Pet) error {
	return r.db.WithContext(ctx).Save(pet).Error
}

func (r *petRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Pet{}, "id = ?", id).Error
}
