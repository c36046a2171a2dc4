package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// MedicalRecordService handles medical record operations
type MedicalRecordService struct {
	recordRepo repository.MedicalRecordRepository
	petRepo    repository.PetRepository
}

// NewMedicalRecordService creates a new medical record service
func NewMedicalRecordService(
	recordRepo repository.MedicalRecordRepository,
	petRepo repository.PetRepository,
) *MedicalRecordService {
	return &MedicalRecordService{
		recordRepo: recordRepo,
		petRepo:    petRepo,
	}
}

// CreateMedicalRecordInput represents the create record input
type CreateMedicalRecordInput struct {
	PetID           uuid.UUID
	VeterinarianID  uuid.UUID
	AppointmentID   *uuid.UUID
	VisitDate       time.Time
	Diagnosis       string
	Treatment       *string
	Prescription    *string
	IsVaccination   bool
	VaccinationName *string
	FollowUpDate    *time.Time
	Notes           *string
}

// CreateMedicalRecord files a visit record for a pet
func (s *MedicalRecordService) CreateMedicalRecord(ctx context.Context, input *CreateMedicalRecordInput) (*entity.MedicalRecord, error) {
	if input.Diagnosis == "" {
		return nil, apperror.NewBadRequestError("Diagnosis is required")
	}
	if input.IsVaccination && (input.VaccinationName == nil || *input.VaccinationName == "") {
		return nil, apperror.NewBadRequestError("Vaccination records require a vaccination name")
	}

	pet, err := s.petRepo.GetByID(ctx, input.PetID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}

	visitDate := input.VisitDate
	if visitDate.IsZero() {
		visitDate = time.Now()
	}

	record := &entity.MedicalRecord{
		PetID:           input.PetID,
		VeterinarianID:  input.VeterinarianID,
		AppointmentID:   input.AppointmentID,
		VisitDate:       visitDate,
		Diagnosis:       input.Diagnosis,
		Treatment:       input.Treatment,
		Prescription:    input.Prescription,
		IsVaccination:   input.IsVaccination,
		VaccinationName: input.VaccinationName,
		FollowUpDate:    input.FollowUpDate,
		Notes:           input.Notes,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.recordRepo.GetByID(ctx, record.ID)
}

// GetMedicalRecord retrieves a record with its pet and veterinarian
func (s *MedicalRecordService) GetMedicalRecord(ctx context.Context, id uuid.UUID) (*entity.MedicalRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Medical record")
	}
	return record, nil
}

// ListMedicalRecords lists records with filtering
func (s *MedicalRecordService) ListMedicalRecords(ctx context.Context, params *repository.MedicalRecordFilterParams) (*pagination.PaginatedResult[entity.MedicalRecord], error) {
	records, total, err := s.recordRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(records, pag), nil
}

// GetPetHistory returns a pet's full clinical history, newest first
func (s *MedicalRecordService) GetPetHistory(ctx context.Context, petID uuid.UUID) ([]entity.MedicalRecord, error) {
	pet, err := s.petRepo.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}

	return s.recordRepo.ListByPet(ctx, petID)
}

// UpdateMedicalRecordInput represents the update record input
type UpdateMedicalRecordInput struct {
	Diagnosis       *string
	Treatment       *string
	Prescription    *string
	IsVaccination   *bool
	VaccinationName *string
	FollowUpDate    *time.Time
	Notes           *string
}

// UpdateMedicalRecord updates an existing record
func (s *MedicalRecordService) UpdateMedicalRecord(ctx context.Context, id uuid.UUID, input *UpdateMedicalRecordInput) (*entity.MedicalRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Medical record")
	}

	if input.Diagnosis != nil {
		if *input.Diagnosis == "" {
			return nil, apperror.NewBadRequestError("Diagnosis cannot be empty")
		}
		record.Diagnosis = *input.Diagnosis
	}
	if input.Treatment != nil {
		record.Treatment = input.Treatment
	}
	if input.Prescription != nil {
		record.Prescription = input.Prescription
	}
	if input.IsVaccination != nil {
		record.IsVaccination = *input.IsVaccination
	}
	if input.VaccinationName != nil {
		record.VaccinationName = input.VaccinationName
	}
	if input.FollowUpDate != nil {
		record.FollowUpDate = input.FollowUpDate
	}
	if input.Notes != nil {
		record.Notes = input.Notes
	}

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteMedicalRecord soft-deletes a record
func (s *MedicalRecordService) DeleteMedicalRecord(ctx context.Context, id uuid.UUID) error {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return apperror.NewNotFoundError("Medical record")
	}

	return s.recordRepo.Delete(ctx, id)
}
