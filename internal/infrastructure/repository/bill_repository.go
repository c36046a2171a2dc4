package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	domainRepo "github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create persists the bill, its line items, stock decrements and the optional
// initial payment in a single transaction. Stock is decremented with a
// conditional UPDATE; any row that cannot cover its quantity rolls back the
// whole transaction with ErrInsufficientStock.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem, stockDecrements map[uuid.UUID]int, initialPayment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].BillID = bill.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		for id, qty := range stockDecrements {
			result := tx.Model(&entity.InventoryItem{}).
				Where("id = ? AND quantity >= ?", id, qty).
				Update("quantity", gorm.Expr("quantity - ?", qty))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainRepo.ErrInsufficientStock
			}
		}

		if initialPayment != nil {
			initialPayment.BillID = bill.ID
			if err := tx.Create(initialPayment).Error; err != nil {
				return err
			}
		}

		bill.Items = items
		return nil
	})
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "bill_no = ?", billNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Payments are loaded separately so a failure here degrades to an empty
	// list instead of failing the whole read.
	var payments []entity.Payment
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", id).
		Order("paid_at DESC").
		Find(&payments).Error; err == nil {
		bill.Payments = payments
	} else {
		bill.Payments = []entity.Payment{}
	}

	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	query = applyBillFilters(query, params.Search, params.PaymentStatus, params.CustomerID, params.FromDate, params.ToDate)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	switch params.SortBy {
	case "bill_date", "due_date", "total", "bill_no", "created_at":
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("bills." + sortBy + " " + sortOrder).
		Find(&bills).Error

	return bills, total, err
}

// ListWithCursor returns bills using cursor-based pagination
func (r *billRepository) ListWithCursor(ctx context.Context, params *domainRepo.BillCursorFilterParams) ([]entity.Bill, error) {
	var bills []entity.Bill

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	query = applyBillFilters(query, params.Search, params.PaymentStatus, params.CustomerID, params.FromDate, params.ToDate)

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(bills.created_at, bills.id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(bills.created_at, bills.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("bills.created_at ASC, bills.id ASC").
		Find(&bills).Error

	return bills, err
}

// RecordPayment locks the bill row FOR UPDATE, validates the payment against
// the outstanding balance and applies it. Concurrent payments against the same
// bill serialize on the row lock, so the balance can never go negative. The
// bill's displayed payment method tracks the most recent payment.
func (r *billRepository) RecordPayment(ctx context.Context, billID uuid.UUID, payment *entity.Payment) (*entity.Bill, error) {
	var bill entity.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bill, "id = ?", billID).Error; err != nil {
			return err
		}

		if bill.IsCancelled() {
			return domainRepo.ErrBillCancelled
		}
		if payment.Amount > bill.Balance {
			return domainRepo.ErrOverpayment
		}

		payment.BillID = bill.ID
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		bill.Paid += payment.Amount
		bill.Balance = bill.Total - bill.Paid
		bill.PaymentStatus = entity.DerivePaymentStatus(bill.Paid, bill.Total)
		bill.PaymentMethod = payment.Method

		return tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{
				"paid":           bill.Paid,
				"balance":        bill.Balance,
				"payment_status": bill.PaymentStatus,
				"payment_method": bill.PaymentMethod,
			}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

// DeletePayment removes a payment and reverses its effect on the bill's
// derived fields inside one transaction.
func (r *billRepository) DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bill, "id = ?", billID).Error; err != nil {
			return err
		}

		var payment entity.Payment
		if err := tx.First(&payment, "id = ? AND bill_id = ?", paymentID, billID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&entity.Payment{}, "id = ?", payment.ID).Error; err != nil {
			return err
		}

		bill.Paid -= payment.Amount
		if bill.Paid < 0 {
			bill.Paid = 0
		}
		bill.Balance = bill.Total - bill.Paid
		if !bill.IsCancelled() {
			bill.PaymentStatus = entity.DerivePaymentStatus(bill.Paid, bill.Total)
		}

		return tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{
				"paid":           bill.Paid,
				"balance":        bill.Balance,
				"payment_status": bill.PaymentStatus,
			}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

// UpdateTerms applies an administrative edit to the bill's discount, tax, due
// date or notes, then recomputes every derived field from the stored line
// items so the totals stay internally consistent.
func (r *billRepository) UpdateTerms(ctx context.Context, billID uuid.UUID, terms *domainRepo.BillTermsUpdate) (*entity.Bill, error) {
	var bill entity.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bill, "id = ?", billID).Error; err != nil {
			return err
		}

		if bill.IsCancelled() {
			return domainRepo.ErrBillCancelled
		}

		var subTotal int64
		row := tx.Model(&entity.BillItem{}).
			Where("bill_id = ?", bill.ID).
			Select("COALESCE(SUM(total), 0)").
			Row()
		if err := row.Scan(&subTotal); err != nil {
			return err
		}

		bill.SubTotal = subTotal
		if terms.DueDate != nil {
			bill.DueDate = terms.DueDate
		}
		if terms.Notes != nil {
			bill.Notes = *terms.Notes
		}
		if terms.DiscountBP != nil {
			bill.DiscountBP = *terms.DiscountBP
			bill.Discount = 0
		} else if terms.DiscountAmount != nil {
			bill.DiscountBP = 0
			bill.Discount = *terms.DiscountAmount
		}
		if terms.TaxBP != nil {
			bill.TaxBP = *terms.TaxBP
		}

		bill.Recalculate()
		if bill.Total < bill.Paid {
			return domainRepo.ErrTotalBelowPaid
		}

		return tx.Save(&bill).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

// Cancel marks the bill cancelled and appends the marker to its notes.
// Recorded payments and consumed stock are left as-is.
func (r *billRepository) Cancel(ctx context.Context, billID uuid.UUID, marker string) (*entity.Bill, error) {
	var bill entity.Bill

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&bill, "id = ?", billID).Error; err != nil {
			return err
		}

		if bill.IsCancelled() {
			return domainRepo.ErrBillCancelled
		}

		bill.PaymentStatus = enum.PaymentStatusCancelled
		if marker != "" {
			if bill.Notes != "" {
				bill.Notes = strings.TrimRight(bill.Notes, "\n") + "\n" + marker
			} else {
				bill.Notes = marker
			}
		}

		return tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{
				"payment_status": bill.PaymentStatus,
				"notes":          bill.Notes,
			}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bill, nil
}

func (r *billRepository) RevenueStats(ctx context.Context, from, to *time.Time) ([]domainRepo.RevenueByStatus, error) {
	var stats []domainRepo.RevenueByStatus

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Select("payment_status, COUNT(*) as bill_count, COALESCE(SUM(total), 0) as total_cents, COALESCE(SUM(paid), 0) as paid_cents, COALESCE(SUM(balance), 0) as balance_cents").
		Group("payment_status")

	if from != nil {
		query = query.Where("bill_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("bill_date <= ?", *to)
	}

	err := query.Scan(&stats).Error
	return stats, err
}

func (r *billRepository) ListOverdue(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("due_date IS NOT NULL AND due_date < ?", time.Now()).
		Where("balance > 0").
		Where("payment_status <> ?", enum.PaymentStatusCancelled)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("due_date ASC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) SumPaidBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

func applyBillFilters(query *gorm.DB, search string, status *enum.PaymentStatus, customerID *uuid.UUID, from, to *time.Time) *gorm.DB {
	if search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("LEFT JOIN customers ON customers.id = bills.customer_id").
			Where("bills.bill_no ILIKE ? OR customers.name ILIKE ?", pattern, pattern)
	}
	if status != nil {
		query = query.Where("payment_status = ?", *status)
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if from != nil {
		query = query.Where("bill_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("bill_date <= ?", *to)
	}
	return query
}
