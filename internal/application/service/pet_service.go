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

// PetService handles pet-related operations
type PetService struct {
	petRepo      repository.PetRepository
	customerRepo repository.CustomerRepository
}

// NewPetService creates a new pet service
func NewPetService(petRepo repository.PetRepository, customerRepo repository.CustomerRepository) *PetService {
	return &PetService{
		petRepo:      petRepo,
		customerRepo: customerRepo,
	}
}

// CreatePetInput represents the create pet input
type CreatePetInput struct {
	CustomerID  uuid.UUID
	Name        string
	Species     string
	Breed       *string
	Sex         *string
	DateOfBirth *time.Time
	WeightGrams *int
	MicrochipNo *string
	Notes       *string
}

// CreatePet registers a new pet under an existing customer
func (s *PetService) CreatePet(ctx context.Context, input *CreatePetInput) (*entity.Pet, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Pet name is required")
	}
	if input.Species == "" {
		return nil, apperror.NewBadRequestError("Pet species is required")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	pet := &entity.Pet{
		CustomerID:  input.CustomerID,
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		Sex:         input.Sex,
		DateOfBirth: input.DateOfBirth,
		WeightGrams: input.WeightGrams,
		MicrochipNo: input.MicrochipNo,
		Notes:       input.Notes,
	}

	if err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

// GetPet retrieves a pet with its owner
func (s *PetService) GetPet(ctx context.Context, id uuid.UUID) (*entity.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}
	return pet, nil
}

// ListPets lists pets with filtering
func (s *PetService) ListPets(ctx context.Context, params *repository.PetFilterParams) (*pagination.PaginatedResult[entity.Pet], error) {
	pets, total, err := s.petRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(pets, pag), nil
}

// UpdatePetInput represents the update pet input
type UpdatePetInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Sex         *string
	DateOfBirth *time.Time
	WeightGrams *int
	MicrochipNo *string
	Notes       *string
}

// UpdatePet updates an existing pet
func (s *PetService) UpdatePet(ctx context.Context, id uuid.UUID, input *UpdatePetInput) (*entity.Pet, error) {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperror.NewNotFoundError("Pet")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Pet name cannot be empty")
		}
		pet.Name = *input.Name
	}
	if input.Species != nil {
		pet.Species = *input.Species
	}
	if input.Breed != nil {
		pet.Breed = input.Breed
	}
	if input.Sex != nil {
		pet.Sex = input.Sex
	}
	if input.DateOfBirth != nil {
		pet.DateOfBirth = input.DateOfBirth
	}
	if input.WeightGrams != nil {
		pet.WeightGrams = input.WeightGrams
	}
	if input.MicrochipNo != nil {
		pet.MicrochipNo = input.MicrochipNo
	}
	if input.Notes != nil {
		pet.Notes = input.Notes
	}

	if err := s.petRepo.Update(ctx, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

// DeletePet soft-deletes a pet
func (s *PetService) DeletePet(ctx context.Context, id uuid.UUID) error {
	pet, err := s.petRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pet == nil {
		return apperror.NewNotFoundError("Pet")
	}

	return s.petRepo.Delete(ctx, id)
}
