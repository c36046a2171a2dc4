package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/pagination"
	"github.com/pawmark/vetcare-api/pkg/utils"
)

// fakeBillRepo records the arguments of the last mutating call and returns
// canned values configured per test.
type fakeBillRepo struct {
	bills map[string]*entity.Bill // keyed by bill no

	createdBill     *entity.Bill
	createdItems    []entity.BillItem
	createdDecs     map[uuid.UUID]int
	createdPayment  *entity.Payment
	createErr       error
	billNoLookups   int
	recordedPayment *entity.Payment
	recordErr       error
	recordResult    *entity.Bill
	updateTerms     *repository.BillTermsUpdate
	updateErr       error
	updateResult    *entity.Bill
	cancelMarker    string
	cancelErr       error
	cancelResult    *entity.Bill
	revenueRows     []repository.RevenueByStatus
}

func (f *fakeBillRepo) Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem, stockDecrements map[uuid.UUID]int, initialPayment *entity.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	f.createdBill = bill
	f.createdItems = items
	f.createdDecs = stockDecrements
	f.createdPayment = initialPayment
	bill.Items = items
	return nil
}

func (f *fakeBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	return nil, nil
}

func (f *fakeBillRepo) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	f.billNoLookups++
	if f.bills == nil {
		return nil, nil
	}
	return f.bills[billNo], nil
}

func (f *fakeBillRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	if f.createdBill != nil && f.createdBill.ID == id {
		return f.createdBill, nil
	}
	return nil, nil
}

func (f *fakeBillRepo) List(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (f *fakeBillRepo) ListWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) ([]entity.Bill, error) {
	return nil, nil
}

func (f *fakeBillRepo) RecordPayment(ctx context.Context, billID uuid.UUID, payment *entity.Payment) (*entity.Bill, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	f.recordedPayment = payment
	return f.recordResult, nil
}

func (f *fakeBillRepo) DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) (*entity.Bill, error) {
	return f.recordResult, nil
}

func (f *fakeBillRepo) UpdateTerms(ctx context.Context, billID uuid.UUID, terms *repository.BillTermsUpdate) (*entity.Bill, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updateTerms = terms
	return f.updateResult, nil
}

func (f *fakeBillRepo) Cancel(ctx context.Context, billID uuid.UUID, marker string) (*entity.Bill, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	f.cancelMarker = marker
	return f.cancelResult, nil
}

func (f *fakeBillRepo) RevenueStats(ctx context.Context, from, to *time.Time) ([]repository.RevenueByStatus, error) {
	return f.revenueRows, nil
}

func (f *fakeBillRepo) ListOverdue(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (f *fakeBillRepo) SumPaidBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error { return nil }

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) GetWithPets(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error { return nil }
func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }

type fakeInventoryRepo struct {
	items     map[uuid.UUID]*entity.InventoryItem
	adjustErr error
	lastDelta int
}

func (f *fakeInventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	return nil
}

func (f *fakeInventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	return f.items[id], nil
}

func (f *fakeInventoryRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	for _, item := range f.items {
		if item.SKU == sku {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeInventoryRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) List(ctx context.Context, params *repository.InventoryFilterParams) ([]entity.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (f *fakeInventoryRepo) ListLowStock(ctx context.Context, params *pagination.PaginationParams) ([]entity.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (f *fakeInventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	return nil
}

func (f *fakeInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeInventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.lastDelta = delta
	if item, ok := f.items[id]; ok {
		item.Quantity += delta
	}
	return nil
}

func (f *fakeInventoryRepo) CountLowStock(ctx context.Context) (int64, error) { return 0, nil }

func newBillingFixture() (*BillingService, *fakeBillRepo, uuid.UUID, uuid.UUID) {
	customerID := uuid.New()
	staffID := uuid.New()

	billRepo := &fakeBillRepo{}
	customerRepo := &fakeCustomerRepo{customers: map[uuid.UUID]*entity.Customer{
		customerID: {ID: customerID, Name: "Jordan Reyes"},
	}}
	inventoryRepo := &fakeInventoryRepo{items: map[uuid.UUID]*entity.InventoryItem{}}

	svc := NewBillingService(billRepo, customerRepo, inventoryRepo)
	return svc, billRepo, customerID, staffID
}

func TestCreateBillTotals(t *testing.T) {
	svc, billRepo, customerID, staffID := newBillingFixture()

	// One 45.00 consultation with 10% tax comes to 49.50
	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		CustomerID: customerID,
		TaxPercent: 10,
		CreatedBy:  staffID,
		Items: []BillItemInput{
			{ItemType: enum.ItemTypeService, Name: "Consultation", Quantity: 1, UnitPrice: 45.00},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, bill)

	assert.Equal(t, int64(4500), bill.SubTotal)
	assert.Equal(t, int64(450), bill.Tax)
	assert.Equal(t, int64(4950), bill.Total)
	assert.Equal(t, int64(4950), bill.Balance)
	assert.Equal(t, enum.PaymentStatusUnpaid, bill.PaymentStatus)
	assert.True(t, utils.IsValidBillNo(bill.BillNo))
	assert.Nil(t, billRepo.createdPayment)
	assert.Empty(t, billRepo.createdDecs)
}

func TestCreateBillInventorySnapshot(t *testing.T) {
	svc, billRepo, customerID, staffID := newBillingFixture()
	inventoryRepo := svc.inventoryRepo.(*fakeInventoryRepo)

	itemID := uuid.New()
	inventoryRepo.items[itemID] = &entity.InventoryItem{
		ID:        itemID,
		Name:      "Rabies Vaccine",
		UnitPrice: 2000,
		Quantity:  10,
	}

	bill, err := svc.CreateBill(context.Background(), &CreateBillInput{
		CustomerID: customerID,
		CreatedBy:  staffID,
		Items: []BillItemInput{
			// Name and price come from the stocked item
			{ItemType: enum.ItemTypeInventory, InventoryItemID: &itemID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, billRepo.createdItems, 1)
	line := billRepo.createdItems[0]
	assert.Equal(t, "Rabies Vaccine", line.Name)
	assert.Equal(t, int64(2000), line.UnitPrice)
	assert.Equal(t, int64(4000), line.Total)
	assert.Equal(t, int64(4000), bill.Total)
	assert.Equal(t, map[uuid.UUID]int{itemID: 2}, billRepo.createdDecs)
}

func TestCreateBillValidation(t *testing.T) {
	svc, _, customerID, staffID := newBillingFixture()
	ctx := context.Background()

	t.Run("no items", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{CustomerID: customerID, CreatedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID: uuid.New(),
			CreatedBy:  staffID,
			Items:      []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})

	t.Run("inventory line without item id", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID: customerID,
			CreatedBy:  staffID,
			Items:      []BillItemInput{{ItemType: enum.ItemTypeInventory, Quantity: 1}},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID: customerID,
			CreatedBy:  staffID,
			Items:      []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 0, UnitPrice: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("line discount exceeds total", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID: customerID,
			CreatedBy:  staffID,
			Items:      []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10, Discount: 20}},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("tax percent out of range", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID: customerID,
			CreatedBy:  staffID,
			TaxPercent: 150,
			Items:      []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10}},
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("negative discount amount", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID:     customerID,
			CreatedBy:      staffID,
			DiscountAmount: -50,
			Items:          []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10}},
		})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Contains(t, appErr.Message, "Discount")
	})

	t.Run("discount amount exceeds subtotal", func(t *testing.T) {
		_, err := svc.CreateBill(ctx, &CreateBillInput{
			CustomerID:     customerID,
			CreatedBy:      staffID,
			DiscountAmount: 25,
			Items:          []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10}},
		})
		require.Error(t, err)
		appErr := apperror.GetAppError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Contains(t, appErr.Message, "subtotal")
	})
}

func TestCreateBillInitialPaymentExceedsTotal(t *testing.T) {
	svc, _, customerID, staffID := newBillingFixture()

	_, err := svc.CreateBill(context.Background(), &CreateBillInput{
		CustomerID:     customerID,
		CreatedBy:      staffID,
		InitialPayment: 100.00,
		PaymentMethod:  enum.PaymentMethodCash,
		Items:          []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 45.00}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestCreateBillInsufficientStock(t *testing.T) {
	svc, billRepo, customerID, staffID := newBillingFixture()
	inventoryRepo := svc.inventoryRepo.(*fakeInventoryRepo)

	itemID := uuid.New()
	inventoryRepo.items[itemID] = &entity.InventoryItem{ID: itemID, Name: "Dewormer", UnitPrice: 500, Quantity: 1}
	billRepo.createErr = repository.ErrInsufficientStock

	_, err := svc.CreateBill(context.Background(), &CreateBillInput{
		CustomerID: customerID,
		CreatedBy:  staffID,
		Items:      []BillItemInput{{ItemType: enum.ItemTypeInventory, InventoryItemID: &itemID, Quantity: 5}},
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "stock")
}

func TestGenerateUniqueBillNoExhaustsAttempts(t *testing.T) {
	svc, billRepo, customerID, staffID := newBillingFixture()

	// Every candidate number reads back as taken
	billRepoAllTaken := &fakeBillRepoAllTaken{fakeBillRepo: billRepo}
	svc.billRepo = billRepoAllTaken

	_, err := svc.CreateBill(context.Background(), &CreateBillInput{
		CustomerID: customerID,
		CreatedBy:  staffID,
		Items:      []BillItemInput{{ItemType: enum.ItemTypeService, Name: "Exam", Quantity: 1, UnitPrice: 10}},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperror.GetAppError(err).Code)
	assert.Equal(t, billNoMaxAttempts, billRepoAllTaken.lookups)
}

// fakeBillRepoAllTaken reports every bill number as already in use
type fakeBillRepoAllTaken struct {
	*fakeBillRepo
	lookups int
}

func (f *fakeBillRepoAllTaken) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	f.lookups++
	return &entity.Bill{BillNo: billNo}, nil
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.recordResult = &entity.Bill{Paid: 2000, Balance: 2950, PaymentStatus: enum.PaymentStatusPartiallyPaid}

		bill, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{
			Amount:     20.00,
			Method:     enum.PaymentMethodCash,
			ReceivedBy: staffID,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.PaymentStatusPartiallyPaid, bill.PaymentStatus)
		assert.Equal(t, int64(2000), billRepo.recordedPayment.Amount)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		svc, _, _, staffID := newBillingFixture()
		_, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{Amount: 0, Method: enum.PaymentMethodCash, ReceivedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("invalid method", func(t *testing.T) {
		svc, _, _, staffID := newBillingFixture()
		_, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{Amount: 10, Method: "barter", ReceivedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("overpayment", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.recordErr = repository.ErrOverpayment

		_, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{Amount: 100, Method: enum.PaymentMethodCash, ReceivedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})

	t.Run("cancelled bill", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.recordErr = repository.ErrBillCancelled

		_, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{Amount: 10, Method: enum.PaymentMethodCash, ReceivedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})

	t.Run("unknown bill", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.recordResult = nil

		_, err := svc.RecordPayment(ctx, uuid.New(), &PaymentInput{Amount: 10, Method: enum.PaymentMethodCash, ReceivedBy: staffID})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})
}

func TestUpdateBill(t *testing.T) {
	ctx := context.Background()

	t.Run("converts percents to basis points", func(t *testing.T) {
		svc, billRepo, _, _ := newBillingFixture()
		billRepo.updateResult = &entity.Bill{}

		discount := 7.5
		_, err := svc.UpdateBill(ctx, uuid.New(), &UpdateBillInput{DiscountPercent: &discount})
		require.NoError(t, err)
		require.NotNil(t, billRepo.updateTerms.DiscountBP)
		assert.Equal(t, int64(750), *billRepo.updateTerms.DiscountBP)
	})

	t.Run("rejects out-of-range percent", func(t *testing.T) {
		svc, _, _, _ := newBillingFixture()

		discount := 120.0
		_, err := svc.UpdateBill(ctx, uuid.New(), &UpdateBillInput{DiscountPercent: &discount})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("total below paid", func(t *testing.T) {
		svc, billRepo, _, _ := newBillingFixture()
		billRepo.updateErr = repository.ErrTotalBelowPaid

		discount := 50.0
		_, err := svc.UpdateBill(ctx, uuid.New(), &UpdateBillInput{DiscountPercent: &discount})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})

	t.Run("cancelled bill", func(t *testing.T) {
		svc, billRepo, _, _ := newBillingFixture()
		billRepo.updateErr = repository.ErrBillCancelled

		notes := "adjusted"
		_, err := svc.UpdateBill(ctx, uuid.New(), &UpdateBillInput{Notes: &notes})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})
}

func TestCancelBill(t *testing.T) {
	ctx := context.Background()

	t.Run("writes an audit marker", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.cancelResult = &entity.Bill{PaymentStatus: enum.PaymentStatusCancelled}

		bill, err := svc.CancelBill(ctx, uuid.New(), staffID)
		require.NoError(t, err)
		assert.True(t, bill.IsCancelled())
		assert.True(t, strings.HasPrefix(billRepo.cancelMarker, "[CANCELLED "))
		assert.Contains(t, billRepo.cancelMarker, staffID.String())
	})

	t.Run("already cancelled", func(t *testing.T) {
		svc, billRepo, _, staffID := newBillingFixture()
		billRepo.cancelErr = repository.ErrBillCancelled

		_, err := svc.CancelBill(ctx, uuid.New(), staffID)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})
}

func TestRevenueStatsConvertsCents(t *testing.T) {
	svc, billRepo, _, _ := newBillingFixture()
	billRepo.revenueRows = []repository.RevenueByStatus{
		{PaymentStatus: enum.PaymentStatusFullyPaid, BillCount: 3, TotalCents: 14850, PaidCents: 14850, BalanceCents: 0},
		{PaymentStatus: enum.PaymentStatusPartiallyPaid, BillCount: 1, TotalCents: 4950, PaidCents: 2000, BalanceCents: 2950},
	}

	rows, err := svc.RevenueStats(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 148.50, rows[0].TotalAmount)
	assert.Equal(t, 29.50, rows[1].BalanceAmount)
}
