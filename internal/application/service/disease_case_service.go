package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// DiseaseCaseService handles disease case tracking
type DiseaseCaseService struct {
	caseRepo repository.DiseaseCaseRepository
	petRepo  repository.PetRepository
}

// NewDiseaseCaseService creates a new disease case service
func NewDiseaseCaseService(
	caseRepo repository.DiseaseCaseRepository,
	petRepo repository.PetRepository,
) *DiseaseCaseService {
	return &DiseaseCaseService{
		caseRepo: caseRepo,
		petRepo:  petRepo,
	}
}

// CreateDiseaseCaseInput represents the create case input
type CreateDiseaseCaseInput struct {
	PetID           uuid.UUID
	MedicalRecordID *uuid.UUID
	DiseaseName     string
	DiagnosisDate   time.Time
	Severity        *string
	City            *string
	Notes           *string
}

// CreateDiseaseCase opens a tracked case for a diagnosed pet. The city
// defaults to the owner's city so outbreak aggregation stays meaningful.
func (s *DiseaseCaseService) CreateDiseaseCase(ctx context.Context, input *CreateDiseaseCaseInput) (*entity.DiseaseCase, error) {
	if input.DiseaseName == "" {
		return nil, apperror.NewBadRequestError("Disease name is required")
	}

	pet, err := s.petRepo.GetByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}

	city := input.City
	if city == nil && pet.Customer != nil {
		city = pet.Customer.City
	}

	diagnosisDate := input.DiagnosisDate
	if diagnosisDate.IsZero() {
		diagnosisDate = time.Now()
	}

	diseaseCase := &entity.DiseaseCase{
		PetID:           input.PetID,
		MedicalRecordID: input.MedicalRecordID,
		DiseaseName:     input.DiseaseName,
		DiagnosisDate:   diagnosisDate,
		Status:          enum.CaseStatusActive,
		Severity:        input.Severity,
		City:            city,
		Notes:           input.Notes,
	}

	if err := s.caseRepo.Create(ctx, diseaseCase); err != nil {
		return nil, err
	}

	return s.caseRepo.GetByID(ctx, diseaseCase.ID)
}

// GetDiseaseCase retrieves a case by ID
func (s *DiseaseCaseService) GetDiseaseCase(ctx context.Context, id uuid.UUID) (*entity.DiseaseCase, error) {
	diseaseCase, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if diseaseCase == nil {
		return nil, apperror.NewNotFoundError("Disease case")
	}
	return diseaseCase, nil
}

// ListDiseaseCases lists cases with filtering
func (s *DiseaseCaseService) ListDiseaseCases(ctx context.Context, params *repository.DiseaseCaseFilterParams) (*pagination.PaginatedResult[entity.DiseaseCase], error) {
	cases, total, err := s.caseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(cases, pag), nil
}

// UpdateDiseaseCaseInput represents the update case input
type UpdateDiseaseCaseInput struct {
	Status   *enum.CaseStatus
	Severity *string
	City     *string
	Notes    *string
}

// UpdateDiseaseCase updates a case's status or details
func (s *DiseaseCaseService) UpdateDiseaseCase(ctx context.Context, id uuid.UUID, input *UpdateDiseaseCaseInput) (*entity.DiseaseCase, error) {
	diseaseCase, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if diseaseCase == nil {
		return nil, apperror.NewNotFoundError("Disease case")
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid case status")
		}
		diseaseCase.Status = *input.Status
	}
	if input.Severity != nil {
		diseaseCase.Severity = input.Severity
	}
	if input.City != nil {
		diseaseCase.City = input.City
	}
	if input.Notes != nil {
		diseaseCase.Notes = input.Notes
	}

	if err := s.caseRepo.Update(ctx, diseaseCase); err != nil {
		return nil, err
	}

	return diseaseCase, nil
}

// DeleteDiseaseCase soft-deletes a case
func (s *DiseaseCaseService) DeleteDiseaseCase(ctx context.Context, id uuid.UUID) error {
	diseaseCase, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if diseaseCase == nil {
		return apperror.NewNotFoundError("Disease case")
	}

	return s.caseRepo.Delete(ctx, id)
}

// CaseStats returns per-disease/per-city case counts, optionally since a date
func (s *DiseaseCaseService) CaseStats(ctx context.Context, since *time.Time) ([]repository.DiseaseCount, error) {
	return s.caseRepo.CountByDiseaseAndCity(ctx, since)
}
