package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/application/service"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/internal/presentation/http/dto/response"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// PetHandler handles pet-related HTTP requests
type PetHandler struct {
	petService *service.PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(petService *service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

// Create handles registering a pet
func (h *PetHandler) Create(c *gin.Context) {
	var req struct {
		CustomerID  uuid.UUID `json:"customer_id" binding:"required"`
		Name        string    `json:"name" binding:"required"`
		Species     string    `json:"species" binding:"required"`
		Breed       *string   `json:"breed"`
		Sex         *string   `json:"sex"`
		DateOfBirth *string   `json:"date_of_birth"`
		WeightGrams *int      `json:"weight_grams"`
		MicrochipNo *string   `json:"microchip_no"`
		Notes       *string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreatePetInput{
		CustomerID:  req.CustomerID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Sex:         req.Sex,
		WeightGrams: req.WeightGrams,
		MicrochipNo: req.MicrochipNo,
		Notes:       req.Notes,
	}

	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			response.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
			return
		}
		input.DateOfBirth = &dob
	}

	pet, err := h.petService.CreatePet(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Pet created successfully", pet)
}

// Get handles getting a single pet
func (h *PetHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pet ID")
		return
	}

	pet, err := h.petService.GetPet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pet retrieved successfully", pet)
}

// List handles listing pets
func (h *PetHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.PetFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:  c.Query("search"),
		Species: c.Query("species"),
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	result, err := h.petService.ListPets(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Pets retrieved successfully", result)
}

// Update handles updating a pet
func (h *PetHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pet ID")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Species     *string `json:"species"`
		Breed       *string `json:"breed"`
		Sex         *string `json:"sex"`
		DateOfBirth *string `json:"date_of_birth"`
		WeightGrams *int    `json:"weight_grams"`
		MicrochipNo *string `json:"microchip_no"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdatePetInput{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Sex:         req.Sex,
		WeightGrams: req.WeightGrams,
		MicrochipNo: req.MicrochipNo,
		Notes:       req.Notes,
	}

	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			response.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
			return
		}
		input.DateOfBirth = &dob
	}

	pet, err := h.petService.UpdatePet(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pet updated successfully", pet)
}

// Delete handles deleting a pet
func (h *PetHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pet ID")
		return
	}

	if err := h.petService.DeletePet(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pet deleted successfully", nil)
}
