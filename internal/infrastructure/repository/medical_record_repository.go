package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	domainRepo "github.com/pawmark/vetcare-api/internal/domain/repository"
)

type medicalRecordRepository struct {
	db *gorm.DB
}

// NewMedicalRecordRepository creates a new medical record repository
func NewMedicalRecordRepository(db *gorm.DB) domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *entity.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *medicalRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Pet.Customer").
		Preload("Veterinarian").
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *medicalRecordRepository) List(ctx context.Context, params *domainRepo.MedicalRecordFilterParams) ([]entity.MedicalRecord, int64, error) {
	var records []entity.MedicalRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MedicalRecord{})

	if params.PetID != nil {
		query = query.Where("pet_id = ?", *params.PetID)
	}
	if params.VeterinarianID != nil {
		query = query.Where("veterinarian_id = ?", *params.VeterinarianID)
	}
	if params.VaccinationsOnly {
		query = query.Where("is_vaccination = ?", true)
	}
	if params.FromDate != nil {
		query = query.Where("visit_date >= ?", *params.FromDate)
	}
	if params.ToDate != nil {
		query = query.Where("visit_date <= ?", *params.ToDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Pet").
		Preload("Veterinarian").
		Order("visit_date DESC").
		Find(&records).Error

	return records, total, err
}

func (r *medicalRecordRepository) ListByPet(ctx context.Context, petID uuid.UUID) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	err := r.db.WithContext(ctx).
		Preload("Veterinarian").
		Where("pet_id = ?", petID).
		Order("visit_date DESC").
		Find(&records).Error
	return records, err
}

func (r *medicalRecordRepository) Update(ctx context.Context, record *entity.MedicalRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.MedicalRecord{}, "id = ?", id).Error
}
