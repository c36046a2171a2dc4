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

type diseaseCaseRepository struct {
	db *gorm.DB
}

// NewDiseaseCaseRepository creates a new disease case repository
func NewDiseaseCaseRepository(db *gorm.DB) domainRepo.DiseaseCaseRepository {
	return &diseaseCaseRepository{db: db}
}

func (r *diseaseCaseRepository) Create(ctx context.Context, diseaseCase *entity.DiseaseCase) error {
	return r.db.WithContext(ctx).Create(diseaseCase).Error
}

func (r *diseaseCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiseaseCase, error) {
	var diseaseCase entity.DiseaseCase
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Pet.Customer").
		First(&diseaseCase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &diseaseCase, err
}

func (r *diseaseCaseRepository) List(ctx context.Context, params *domainRepo.DiseaseCaseFilterParams) ([]entity.DiseaseCase, int64, error) {
	var cases []entity.DiseaseCase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DiseaseCase{})

	if params.DiseaseName != "" {
		query = query.Where("disease_name ILIKE ?", "%"+params.DiseaseName+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.City != "" {
		query = query.Where("city = ?", params.City)
	}
	if params.FromDate != nil {
		query = query.Where("diagnosis_date >= ?", *params.FromDate)
	}
	if params.ToDate != nil {
		query = query.Where("diagnosis_date <= ?", *params.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Pet").
		Order("diagnosis_date DESC").
		Find(&cases).Error

	return cases, total, err
}

func (r *diseaseCaseRepository) Update(ctx context.Context, diseaseCase *entity.DiseaseCase) error {
	return r.db.WithContext(ctx).Save(diseaseCase).Error
}

func (r *diseaseCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DiseaseCase{}, "id = ?", id).Error
}

// CountByDiseaseAndCity aggregates case counts grouped by disease and city,
// optionally limited to diagnoses on or after the given date. Feeds the
// outbreak prediction payload.
func (r *diseaseCaseRepository) CountByDiseaseAndCity(ctx context.Context, since *time.Time) ([]domainRepo.DiseaseCount, error) {
	var counts []domainRepo.DiseaseCount

	query := r.db.WithContext(ctx).Model(&entity.DiseaseCase{}).
		Select("disease_name, COALESCE(city, '') as city, COUNT(*) as case_count").
		Group("disease_name, city")

	if since != nil {
		query = query.Where("diagnosis_date >= ?", *since)
	}

	err := query.Order("case_count DESC").Scan(&counts).Error
	return counts, err
}

func (r *diseaseCaseRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DiseaseCase{}).
		Where("status = ?", enum.CaseStatusActive).
		Count(&count).Error
	return count, err
}
