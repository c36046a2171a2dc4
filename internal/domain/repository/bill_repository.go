package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// Billing invariant violations surfaced by the repository. The service layer
// maps them onto HTTP error codes.
var (
	// ErrOverpayment is returned when a payment would exceed the bill's
	// outstanding balance. The transaction is rolled back.
	ErrOverpayment = errors.New("payment amount exceeds outstanding balance")
	// ErrBillCancelled is returned when mutating a cancelled bill.
	ErrBillCancelled = errors.New("bill is cancelled")
	// ErrInsufficientStock is returned when a bill's inventory line items
	// cannot be covered by on-hand stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrTotalBelowPaid is returned when an edit would reduce the bill total
	// below the amount already paid.
	ErrTotalBelowPaid = errors.New("bill total cannot drop below amount already paid")
)

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	FromDate      *time.Time
	ToDate        *time.Time
	SortBy        string
	SortOrder     string
}

// BillCursorFilterParams contains cursor-based filtering for bill queries
type BillCursorFilterParams struct {
	Cursor        *pagination.CursorParams
	Search        string
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	FromDate      *time.Time
	ToDate        *time.Time
}

// BillTermsUpdate carries the mutable fields of an administrative bill edit.
// Nil fields are left unchanged; derived totals are recomputed transactionally.
type BillTermsUpdate struct {
	DueDate        *time.Time
	DiscountBP     *int64
	DiscountAmount *int64
	TaxBP          *int64
	Notes          *string
}

// RevenueByStatus is one row of the revenue report
type RevenueByStatus struct {
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	BillCount     int64              `json:"bill_count"`
	TotalCents    int64              `json:"-"`
	PaidCents     int64              `json:"-"`
	BalanceCents  int64              `json:"-"`
}

// BillRepository defines the interface for bill data operations.
// Multi-step operations (create with items, payment recording, edits,
// cancellation) each run inside one database transaction.
type BillRepository interface {
	// Create persists the bill with its line items, decrements stock for
	// inventory-backed items (failing with ErrInsufficientStock), and records
	// the initial payment if one is given. One transaction.
	Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem, stockDecrements map[uuid.UUID]int, initialPayment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error)
	// GetWithDetails returns the bill with customer, items (insertion order)
	// and payments (newest first). A failure loading payments degrades to an
	// empty payment list.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListWithCursor(ctx context.Context, params *BillCursorFilterParams) ([]entity.Bill, error)
	// RecordPayment locks the bill row, validates the amount against the
	// outstanding balance (ErrOverpayment, ErrBillCancelled), inserts the
	// payment and updates the bill's derived fields. One transaction.
	RecordPayment(ctx context.Context, billID uuid.UUID, payment *entity.Payment) (*entity.Bill, error)
	// DeletePayment removes a payment and symmetrically reverses the bill's
	// derived fields. One transaction.
	DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) (*entity.Bill, error)
	// UpdateTerms applies an administrative edit and recomputes all derived
	// fields from the stored line items. One transaction.
	UpdateTerms(ctx context.Context, billID uuid.UUID, terms *BillTermsUpdate) (*entity.Bill, error)
	// Cancel overwrites the payment status with cancelled and appends the
	// marker to the bill's notes. Payments and stock are left untouched.
	Cancel(ctx context.Context, billID uuid.UUID, marker string) (*entity.Bill, error)
	RevenueStats(ctx context.Context, from, to *time.Time) ([]RevenueByStatus, error)
	ListOverdue(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error)
	SumPaidBetween(ctx context.Context, from, to time.Time) (int64, error)
}
