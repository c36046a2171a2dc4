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

// BillingHandler handles billing-related HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Create handles creating a bill
func (h *BillingHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID      uuid.UUID  `json:"customer_id" binding:"required"`
		AppointmentID   *uuid.UUID `json:"appointment_id"`
		BillDate        string     `json:"bill_date"`
		DueDate         *string    `json:"due_date"`
		DiscountPercent float64    `json:"discount_percentage"`
		DiscountAmount  float64    `json:"discount_amount"`
		TaxPercent      float64    `json:"tax_percentage"`
		PaymentMethod   string     `json:"payment_method"`
		Notes           string     `json:"notes"`
		PaidAmount      float64    `json:"paid_amount"`
		InitialPayment  float64    `json:"initial_payment"` // legacy alias for paid_amount
		Items           []struct {
			ItemType        string     `json:"item_type" binding:"required"`
			InventoryItemID *uuid.UUID `json:"inventory_item_id"`
			Name            string     `json:"item_name"`
			Quantity        int        `json:"quantity" binding:"required"`
			UnitPrice       float64    `json:"unit_price"`
			Discount        float64    `json:"discount"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paidAmount := req.PaidAmount
	if paidAmount == 0 {
		paidAmount = req.InitialPayment
	}

	input := &service.CreateBillInput{
		CustomerID:      req.CustomerID,
		AppointmentID:   req.AppointmentID,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		TaxPercent:      req.TaxPercent,
		PaymentMethod:   enum.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
		InitialPayment:  paidAmount,
		CreatedBy:       *userID,
	}

	if req.BillDate != "" {
		billDate, err := time.Parse("2006-01-02", req.BillDate)
		if err != nil {
			response.BadRequest(c, "Invalid bill date, expected YYYY-MM-DD")
			return
		}
		input.BillDate = billDate
	}

	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &dueDate
	}

	input.Items = make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		itemType := enum.ItemType(item.ItemType)
		if !itemType.IsValid() {
			response.BadRequest(c, "Invalid item type")
			return
		}
		input.Items[i] = service.BillItemInput{
			ItemType:        itemType,
			InventoryItemID: item.InventoryItemID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Discount:        item.Discount,
		}
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Get handles getting a single bill with items and payments
func (h *BillingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills (supports both page-based and cursor-based pagination)
func (h *BillingHandler) List(c *gin.Context) {
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	h.applyBillQueryFilters(c, &params.Search, &params.PaymentStatus, &params.CustomerID, &params.FromDate, &params.ToDate)

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// listWithCursor handles listing bills with cursor-based pagination
func (h *BillingHandler) listWithCursor(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.BillCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search: c.Query("search"),
	}

	h.applyBillQueryFilters(c, &params.Search, &params.PaymentStatus, &params.CustomerID, &params.FromDate, &params.ToDate)

	result, err := h.billingService.ListBillsWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, 200, "Bills retrieved successfully", result)
}

func (h *BillingHandler) applyBillQueryFilters(c *gin.Context, search *string, status **enum.PaymentStatus, customerID **uuid.UUID, fromDate, toDate **time.Time) {
	if statusStr := c.Query("payment_status"); statusStr != "" {
		if parsed, err := enum.ParsePaymentStatus(statusStr); err == nil {
			*status = &parsed
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if parsed, err := uuid.Parse(customerIDStr); err == nil {
			*customerID = &parsed
		}
	}

	if fromStr := c.Query("from_date"); fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", fromStr); err == nil {
			*fromDate = &parsed
		}
	}

	if toStr := c.Query("to_date"); toStr != "" {
		if parsed, err := time.Parse("2006-01-02", toStr); err == nil {
			*toDate = &parsed
		}
	}
}

// Update handles editing a bill's terms
func (h *BillingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		DueDate         *string  `json:"due_date"`
		DiscountPercent *float64 `json:"discount_percentage"`
		DiscountAmount  *float64 `json:"discount_amount"`
		TaxPercent      *float64 `json:"tax_percentage"`
		Notes           *string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateBillInput{
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		TaxPercent:      req.TaxPercent,
		Notes:           req.Notes,
	}

	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			response.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &dueDate
	}

	bill, err := h.billingService.UpdateBill(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", bill)
}

// Cancel handles cancelling a bill
func (h *BillingHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billingService.CancelBill(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", bill)
}

// RecordPayment handles recording a payment against a bill
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Amount    float64 `json:"amount" binding:"required"`
		Method    string  `json:"payment_method" binding:"required"`
		PaidAt    *string `json:"paid_at"`
		Reference *string `json:"payment_reference"`
		CardType  *string `json:"card_type"`
		BankName  *string `json:"bank_name"`
		Notes     string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.PaymentInput{
		Amount:     req.Amount,
		Method:     enum.PaymentMethod(req.Method),
		Reference:  req.Reference,
		CardType:   req.CardType,
		BankName:   req.BankName,
		Notes:      req.Notes,
		ReceivedBy: *userID,
	}

	if req.PaidAt != nil && *req.PaidAt != "" {
		paidAt, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			response.BadRequest(c, "Invalid paid_at, expected RFC3339")
			return
		}
		input.PaidAt = &paidAt
	}

	bill, err := h.billingService.RecordPayment(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", bill)
}

// DeletePayment handles removing a payment from a bill
func (h *BillingHandler) DeletePayment(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	bill, err := h.billingService.DeletePayment(c.Request.Context(), billID, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment deleted successfully", bill)
}

// RevenueStats handles the revenue report
func (h *BillingHandler) RevenueStats(c *gin.Context) {
	var from, to *time.Time

	if fromStr := c.Query("from_date"); fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", fromStr); err == nil {
			from = &parsed
		}
	}
	if toStr := c.Query("to_date"); toStr != "" {
		if parsed, err := time.Parse("2006-01-02", toStr); err == nil {
			to = &parsed
		}
	}

	stats, err := h.billingService.RevenueStats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Revenue stats retrieved successfully", stats)
}

// ListOverdue handles listing overdue bills
func (h *BillingHandler) ListOverdue(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.billingService.ListOverdueBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Overdue bills retrieved successfully", result)
}
