package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/application/service"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/internal/presentation/http/dto/response"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// DiseaseCaseHandler handles disease case HTTP requests
type DiseaseCaseHandler struct {
	caseService *service.DiseaseCaseService
}

// NewDiseaseCaseHandler creates a new disease case handler
func NewDiseaseCaseHandler(caseService *service.DiseaseCaseService) *DiseaseCaseHandler {
	return &DiseaseCaseHandler{caseService: caseService}
}

// Create handles opening a disease case
func (h *DiseaseCaseHandler) Create(c *gin.Context) {
	var req struct {
		PetID           uuid.UUID  `json:"pet_id" binding:"required"`
		MedicalRecordID *uuid.UUID `json:"medical_record_id"`
		DiseaseName     string     `json:"disease_name" binding:"required"`
		DiagnosisDate   *string    `json:"diagnosis_date"`
		Severity        *string    `json:"severity"`
		City            *string    `json:"city"`
		Notes           *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateDiseaseCaseInput{
		PetID:           req.PetID,
		MedicalRecordID: req.MedicalRecordID,
		DiseaseName:     req.DiseaseName,
		Severity:        req.Severity,
		City:            req.City,
		Notes:           req.Notes,
	}

	if req.DiagnosisDate != nil && *req.DiagnosisDate != "" {
		diagnosisDate, err := time.Parse("2006-01-02", *req.DiagnosisDate)
		if err != nil {
			response.BadRequest(c, "Invalid diagnosis date, expected YYYY-MM-DD")
			return
		}
		input.DiagnosisDate = diagnosisDate
	}

	diseaseCase, err := h.caseService.CreateDiseaseCase(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Disease case created successfully", diseaseCase)
}

// Get handles getting a single disease case
func (h *DiseaseCaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid disease case ID")
		return
	}

	diseaseCase, err := h.caseService.GetDiseaseCase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Disease case retrieved successfully", diseaseCase)
}

// List handles listing disease cases
func (h *DiseaseCaseHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.DiseaseCaseFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		DiseaseName: c.Query("disease_name"),
		City:        c.Query("city"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.CaseStatus(statusStr)
		if status.IsValid() {
			params.Status = &status
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

	result, err := h.caseService.ListDiseaseCases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Disease cases retrieved successfully", result)
}

// Stats handles the per-disease per-city case counts
func (h *DiseaseCaseHandler) Stats(c *gin.Context) {
	var since *time.Time
	if sinceStr := c.Query("since"); sinceStr != "" {
		if parsed, err := time.Parse("2006-01-02", sinceStr); err == nil {
			since = &parsed
		}
	}

	stats, err := h.caseService.CaseStats(c.Request.Context(), since)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Disease case stats retrieved successfully", stats)
}

// Update handles updating a disease case
func (h *DiseaseCaseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid disease case ID")
		return
	}

	var req struct {
		Status   *string `json:"status"`
		Severity *string `json:"severity"`
		City     *string `json:"city"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateDiseaseCaseInput{
		Severity: req.Severity,
		City:     req.City,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		status := enum.CaseStatus(*req.Status)
		input.Status = &status
	}

	diseaseCase, err := h.caseService.UpdateDiseaseCase(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Disease case updated successfully", diseaseCase)
}

// Delete handles deleting a disease case
func (h *DiseaseCaseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid disease case ID")
		return
	}

	if err := h.caseService.DeleteDiseaseCase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Disease case deleted successfully", nil)
}
