package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/money"
	"github.com/pawmark/vetcare-api/pkg/pagination"
	"github.com/pawmark/vetcare-api/pkg/utils"
)

// billNoMaxAttempts bounds the unique bill number generation loop
const billNoMaxAttempts = 10

// BillingService handles bill and payment operations
type BillingService struct {
	billRepo      repository.BillRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
}

// NewBillingService creates a new billing service
func NewBillingService(
	billRepo repository.BillRepository,
	customerRepo repository.CustomerRepository,
	inventoryRepo repository.InventoryRepository,
) *BillingService {
	return &BillingService{
		billRepo:      billRepo,
		customerRepo:  customerRepo,
		inventoryRepo: inventoryRepo,
	}
}

// BillItemInput represents one line item of a new bill
type BillItemInput struct {
	ItemType        enum.ItemType
	InventoryItemID *uuid.UUID
	Name            string
	Quantity        int
	UnitPrice       float64
	Discount        float64
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	CustomerID      uuid.UUID
	AppointmentID   *uuid.UUID
	BillDate        time.Time
	DueDate         *time.Time
	DiscountPercent float64
	DiscountAmount  float64
	TaxPercent      float64
	PaymentMethod   enum.PaymentMethod
	Notes           string
	InitialPayment  float64
	Items           []BillItemInput
	CreatedBy       uuid.UUID
}

// PaymentInput represents a payment to record against a bill
type PaymentInput struct {
	Amount     float64
	Method     enum.PaymentMethod
	PaidAt     *time.Time
	Reference  *string
	CardType   *string
	BankName   *string
	Notes      string
	ReceivedBy uuid.UUID
}

// UpdateBillInput carries the editable fields of an existing bill
type UpdateBillInput struct {
	DueDate         *time.Time
	DiscountPercent *float64
	DiscountAmount  *float64
	TaxPercent      *float64
	Notes           *string
}

// CreateBill validates the input, computes totals in cents, persists the bill
// with its items and optional initial payment, and decrements inventory stock.
// Everything after validation runs in a single transaction.
func (s *BillingService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Bill must contain at least one item")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	// Batch fetch referenced inventory items in one query
	var inventoryIDs []uuid.UUID
	for _, item := range input.Items {
		if item.ItemType == enum.ItemTypeInventory {
			if item.InventoryItemID == nil {
				return nil, apperror.NewBadRequestError("Inventory line items require an inventory_item_id")
			}
			inventoryIDs = append(inventoryIDs, *item.InventoryItemID)
		}
	}

	inventoryItems, err := s.inventoryRepo.GetByIDs(ctx, inventoryIDs)
	if err != nil {
		return nil, err
	}
	inventoryMap := make(map[uuid.UUID]*entity.InventoryItem, len(inventoryItems))
	for i := range inventoryItems {
		inventoryMap[inventoryItems[i].ID] = &inventoryItems[i]
	}

	var subTotal int64
	billItems := make([]entity.BillItem, 0, len(input.Items))
	stockDecrements := make(map[uuid.UUID]int)

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
		if item.UnitPrice < 0 || item.Discount < 0 {
			return nil, apperror.NewBadRequestError("Item amounts cannot be negative")
		}

		name := item.Name
		unitPrice := money.ToCents(item.UnitPrice)

		if item.ItemType == enum.ItemTypeInventory {
			stocked, exists := inventoryMap[*item.InventoryItemID]
			if !exists {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Inventory item %s", *item.InventoryItemID))
			}
			// Snapshot name and price from the inventory record unless the
			// caller priced the line explicitly
			if name == "" {
				name = stocked.Name
			}
			if item.UnitPrice == 0 {
				unitPrice = stocked.UnitPrice
			}
			stockDecrements[stocked.ID] += item.Quantity
		} else if name == "" {
			return nil, apperror.NewBadRequestError("Service line items require a name")
		}

		discount := money.ToCents(item.Discount)
		itemTotal := unitPrice*int64(item.Quantity) - discount
		if itemTotal < 0 {
			return nil, apperror.NewBadRequestError("Item discount cannot exceed the line total")
		}
		subTotal += itemTotal

		billItems = append(billItems, entity.BillItem{
			ItemType:        item.ItemType,
			InventoryItemID: item.InventoryItemID,
			Name:            name,
			Quantity:        item.Quantity,
			UnitPrice:       unitPrice,
			Discount:        discount,
			Total:           itemTotal,
		})
	}

	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, apperror.NewBadRequestError("Discount percentage must be between 0 and 100")
	}
	if input.DiscountAmount < 0 {
		return nil, apperror.NewBadRequestError("Discount amount cannot be negative")
	}
	if money.ToCents(input.DiscountAmount) > subTotal {
		return nil, apperror.NewBadRequestError("Discount amount cannot exceed the bill subtotal")
	}
	if input.TaxPercent < 0 || input.TaxPercent > 100 {
		return nil, apperror.NewBadRequestError("Tax percentage must be between 0 and 100")
	}
	if input.InitialPayment < 0 {
		return nil, apperror.NewBadRequestError("Initial payment cannot be negative")
	}

	billDate := input.BillDate
	if billDate.IsZero() {
		billDate = time.Now()
	}

	bill := &entity.Bill{
		CustomerID:    input.CustomerID,
		AppointmentID: input.AppointmentID,
		BillDate:      billDate,
		DueDate:       input.DueDate,
		SubTotal:      subTotal,
		DiscountBP:    money.ToBasisPoints(input.DiscountPercent),
		Discount:      money.ToCents(input.DiscountAmount),
		TaxBP:         money.ToBasisPoints(input.TaxPercent),
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		CreatedBy:     input.CreatedBy,
	}
	bill.Paid = money.ToCents(input.InitialPayment)
	bill.Recalculate()

	if bill.Paid > bill.Total {
		return nil, apperror.NewConflictError("Initial payment exceeds the bill total")
	}

	billNo, err := s.generateUniqueBillNo(ctx, billDate)
	if err != nil {
		return nil, err
	}
	bill.BillNo = billNo

	var initialPayment *entity.Payment
	if bill.Paid > 0 {
		method := input.PaymentMethod
		if !method.IsValid() {
			return nil, apperror.NewBadRequestError("A valid payment method is required with an initial payment")
		}
		initialPayment = &entity.Payment{
			Amount:     bill.Paid,
			PaidAt:     time.Now(),
			Method:     method,
			ReceivedBy: input.CreatedBy,
		}
	}

	if err := s.billRepo.Create(ctx, bill, billItems, stockDecrements, initialPayment); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperror.NewConflictError("Insufficient stock for one or more inventory items")
		}
		return nil, err
	}

	return s.billRepo.GetWithDetails(ctx, bill.ID)
}

// generateUniqueBillNo draws random bill numbers until one is unused. The
// attempt count is bounded so a pathological collision streak fails loudly
// instead of looping forever.
func (s *BillingService) generateUniqueBillNo(ctx context.Context, date time.Time) (string, error) {
	for attempt := 0; attempt < billNoMaxAttempts; attempt++ {
		billNo := utils.GenerateBillNo(date)
		existing, err := s.billRepo.GetByBillNo(ctx, billNo)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return billNo, nil
		}
	}
	return "", apperror.NewAppError(500, "Could not allocate a unique bill number")
}

// GetBill retrieves a bill with its customer, items and payments
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills with filtering and offset pagination
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// ListBillsWithCursor lists bills with cursor-based pagination
func (s *BillingService) ListBillsWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Bill], error) {
	bills, err := s.billRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(bills, params.Cursor.Limit,
		func(b entity.Bill) string { return b.ID.String() },
		func(b entity.Bill) time.Time { return b.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// RecordPayment records a payment against a bill. The repository serializes
// concurrent payments on a row lock; overpayment and cancelled-bill attempts
// surface as conflicts.
func (s *BillingService) RecordPayment(ctx context.Context, billID uuid.UUID, input *PaymentInput) (*entity.Bill, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if !input.Method.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment method")
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	payment := &entity.Payment{
		Amount:     money.ToCents(input.Amount),
		PaidAt:     paidAt,
		Method:     input.Method,
		Reference:  input.Reference,
		CardType:   input.CardType,
		BankName:   input.BankName,
		Notes:      input.Notes,
		ReceivedBy: input.ReceivedBy,
	}

	bill, err := s.billRepo.RecordPayment(ctx, billID, payment)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOverpayment):
			return nil, apperror.NewConflictError("Payment amount exceeds the outstanding balance")
		case errors.Is(err, repository.ErrBillCancelled):
			return nil, apperror.NewConflictError("Cannot record a payment on a cancelled bill")
		}
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	return bill, nil
}

// DeletePayment removes a payment and reverses its effect on the bill
func (s *BillingService) DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.DeletePayment(ctx, billID, paymentID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return bill, nil
}

// UpdateBill applies an administrative edit to a bill's terms and recomputes
// its derived totals
func (s *BillingService) UpdateBill(ctx context.Context, billID uuid.UUID, input *UpdateBillInput) (*entity.Bill, error) {
	terms := &repository.BillTermsUpdate{
		DueDate: input.DueDate,
		Notes:   input.Notes,
	}

	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, apperror.NewBadRequestError("Discount percentage must be between 0 and 100")
		}
		bp := money.ToBasisPoints(*input.DiscountPercent)
		terms.DiscountBP = &bp
	}
	if input.DiscountAmount != nil {
		if *input.DiscountAmount < 0 {
			return nil, apperror.NewBadRequestError("Discount amount cannot be negative")
		}
		cents := money.ToCents(*input.DiscountAmount)
		terms.DiscountAmount = &cents
	}
	if input.TaxPercent != nil {
		if *input.TaxPercent < 0 || *input.TaxPercent > 100 {
			return nil, apperror.NewBadRequestError("Tax percentage must be between 0 and 100")
		}
		bp := money.ToBasisPoints(*input.TaxPercent)
		terms.TaxBP = &bp
	}

	bill, err := s.billRepo.UpdateTerms(ctx, billID, terms)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBillCancelled):
			return nil, apperror.NewConflictError("Cannot edit a cancelled bill")
		case errors.Is(err, repository.ErrTotalBelowPaid):
			return nil, apperror.NewConflictError("Bill total cannot drop below the amount already paid")
		}
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	return bill, nil
}

// CancelBill marks a bill cancelled. Bills are never hard-deleted; payments
// and consumed stock remain on record.
func (s *BillingService) CancelBill(ctx context.Context, billID uuid.UUID, cancelledBy uuid.UUID) (*entity.Bill, error) {
	marker := fmt.Sprintf("[CANCELLED %s by %s]", time.Now().Format("2006-01-02"), cancelledBy)

	bill, err := s.billRepo.Cancel(ctx, billID, marker)
	if err != nil {
		if errors.Is(err, repository.ErrBillCancelled) {
			return nil, apperror.NewConflictError("Bill is already cancelled")
		}
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	return bill, nil
}

// RevenueStatsRow is one row of the revenue report with decimal amounts
type RevenueStatsRow struct {
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	BillCount     int64              `json:"bill_count"`
	TotalAmount   float64            `json:"total_amount"`
	PaidAmount    float64            `json:"paid_amount"`
	BalanceAmount float64            `json:"balance_amount"`
}

// RevenueStats aggregates billed, paid and outstanding amounts by status
func (s *BillingService) RevenueStats(ctx context.Context, from, to *time.Time) ([]RevenueStatsRow, error) {
	stats, err := s.billRepo.RevenueStats(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]RevenueStatsRow, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, RevenueStatsRow{
			PaymentStatus: stat.PaymentStatus,
			BillCount:     stat.BillCount,
			TotalAmount:   money.FromCents(stat.TotalCents),
			PaidAmount:    money.FromCents(stat.PaidCents),
			BalanceAmount: money.FromCents(stat.BalanceCents),
		})
	}
	return rows, nil
}

// ListOverdueBills returns unpaid bills past their due date
func (s *BillingService) ListOverdueBills(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.ListOverdue(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}
