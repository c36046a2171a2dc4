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

// MedicalRecordHandler handles medical record HTTP requests
type MedicalRecordHandler struct {
	recordService *service.MedicalRecordService
}

// NewMedicalRecordHandler creates a new medical record handler
func NewMedicalRecordHandler(recordService *service.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{recordService: recordService}
}

// Create handles filing a medical record
func (h *MedicalRecordHandler) Create(c *gin.Context) {
	var req struct {
		PetID           uuid.UUID  `json:"pet_id" binding:"required"`
		VeterinarianID  uuid.UUID  `json:"veterinarian_id" binding:"required"`
		AppointmentID   *uuid.UUID `json:"appointment_id"`
		VisitDate       *time.Time `json:"visit_date"`
		Diagnosis       string     `json:"diagnosis" binding:"required"`
		Treatment       *string    `json:"treatment"`
		Prescription    *string    `json:"prescription"`
		IsVaccination   bool       `json:"is_vaccination"`
		VaccinationName *string    `json:"vaccination_name"`
		FollowUpDate    *time.Time `json:"follow_up_date"`
		Notes           *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateMedicalRecordInput{
		PetID:           req.PetID,
		VeterinarianID:  req.VeterinarianID,
		AppointmentID:   req.AppointmentID,
		Diagnosis:       req.Diagnosis,
		Treatment:       req.Treatment,
		Prescription:    req.Prescription,
		IsVaccination:   req.IsVaccination,
		VaccinationName: req.VaccinationName,
		FollowUpDate:    req.FollowUpDate,
		Notes:           req.Notes,
	}
	if req.VisitDate != nil {
		input.VisitDate = *req.VisitDate
	}

	record, err := h.recordService.CreateMedicalRecord(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Medical record created successfully", record)
}

// Get handles getting a single medical record
func (h *MedicalRecordHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medical record ID")
		return
	}

	record, err := h.recordService.GetMedicalRecord(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medical record retrieved successfully", record)
}

// List handles listing medical records
func (h *MedicalRecordHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.MedicalRecordFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		VaccinationsOnly: c.Query("vaccinations_only") == "true",
	}

	if petIDStr := c.Query("pet_id"); petIDStr != "" {
		if petID, err := uuid.Parse(petIDStr); err == nil {
			params.PetID = &petID
		}
	}
	if vetIDStr := c.Query("veterinarian_id"); vetIDStr != "" {
		if vetID, err := uuid.Parse(vetIDStr); err == nil {
			params.VeterinarianID = &vetID
		}
	}
	if fromStr := c.Query("from_date"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			params.FromDate = &from
		}
	}
	if toStr := c.Query("to_date"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			params.ToDate = &to
		}
	}

	result, err := h.recordService.ListMedicalRecords(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Medical records retrieved successfully", result)
}

// PetHistory handles listing a pet's full medical history, newest visit first
func (h *MedicalRecordHandler) PetHistory(c *gin.Context) {
	petID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pet ID")
		return
	}

	records, err := h.recordService.GetPetHistory(c.Request.Context(), petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medical history retrieved successfully", records)
}

// Update handles updating a medical record
func (h *MedicalRecordHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medical record ID")
		return
	}

	var req struct {
		Diagnosis       *string    `json:"diagnosis"`
		Treatment       *string    `json:"treatment"`
		Prescription    *string    `json:"prescription"`
		IsVaccination   *bool      `json:"is_vaccination"`
		VaccinationName *string    `json:"vaccination_name"`
		FollowUpDate    *time.Time `json:"follow_up_date"`
		Notes           *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.recordService.UpdateMedicalRecord(c.Request.Context(), id, &service.UpdateMedicalRecordInput{
		Diagnosis:       req.Diagnosis,
		Treatment:       req.Treatment,
		Prescription:    req.Prescription,
		IsVaccination:   req.IsVaccination,
		VaccinationName: req.VaccinationName,
		FollowUpDate:    req.FollowUpDate,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medical record updated successfully", record)
}

// Delete handles deleting a medical record
func (h *MedicalRecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medical record ID")
		return
	}

	if err := h.recordService.DeleteMedicalRecord(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medical record deleted successfully", nil)
}
