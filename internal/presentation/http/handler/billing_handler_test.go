package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmark/vetcare-api/internal/application/service"
	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBillRepo struct {
	createdBill    *entity.Bill
	initialPayment *entity.Payment
}

func (s *stubBillRepo) Create(ctx context.Context, bill *entity.Bill, items []entity.BillItem, stockDecrements map[uuid.UUID]int, initialPayment *entity.Payment) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	bill.Items = items
	s.createdBill = bill
	s.initialPayment = initialPayment
	return nil
}

func (s *stubBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	if s.createdBill != nil && s.createdBill.ID == id {
		return s.createdBill, nil
	}
	return nil, nil
}

func (s *stubBillRepo) List(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (s *stubBillRepo) ListWithCursor(ctx context.Context, params *repository.BillCursorFilterParams) ([]entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) RecordPayment(ctx context.Context, billID uuid.UUID, payment *entity.Payment) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) UpdateTerms(ctx context.Context, billID uuid.UUID, terms *repository.BillTermsUpdate) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) Cancel(ctx context.Context, billID uuid.UUID, marker string) (*entity.Bill, error) {
	return nil, nil
}

func (s *stubBillRepo) RevenueStats(ctx context.Context, from, to *time.Time) ([]repository.RevenueByStatus, error) {
	return nil, nil
}

func (s *stubBillRepo) ListOverdue(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (s *stubBillRepo) SumPaidBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

type stubCustomerRepo struct {
	customer *entity.Customer
}

func (s *stubCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error { return nil }

func (s *stubCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	if s.customer != nil && s.customer.ID == id {
		return s.customer, nil
	}
	return nil, nil
}

func (s *stubCustomerRepo) GetWithPets(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return s.GetByID(ctx, id)
}

func (s *stubCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (s *stubCustomerRepo) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	return nil, nil
}

func (s *stubCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error { return nil }
func (s *stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }

type stubInventoryRepo struct{}

func (s *stubInventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	return nil
}

func (s *stubInventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	return nil, nil
}

func (s *stubInventoryRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	return nil, nil
}

func (s *stubInventoryRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	return nil, nil
}

func (s *stubInventoryRepo) List(ctx context.Context, params *repository.InventoryFilterParams) ([]entity.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (s *stubInventoryRepo) ListLowStock(ctx context.Context, params *pagination.PaginationParams) ([]entity.InventoryItem, int64, error) {
	return nil, 0, nil
}

func (s *stubInventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	return nil
}

func (s *stubInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubInventoryRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	return nil
}

func (s *stubInventoryRepo) CountLowStock(ctx context.Context) (int64, error) { return 0, nil }

func newBillingTestRouter(t *testing.T) (*gin.Engine, *stubBillRepo, uuid.UUID) {
	t.Helper()

	customerID := uuid.New()
	billRepo := &stubBillRepo{}
	customerRepo := &stubCustomerRepo{customer: &entity.Customer{ID: customerID, Name: "Jordan Reyes"}}

	svc := service.NewBillingService(billRepo, customerRepo, &stubInventoryRepo{})
	h := NewBillingHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Next()
	})
	router.POST("/billing", h.Create)

	return router, billRepo, customerID
}

func TestBillingCreatePaidAmountField(t *testing.T) {
	postBill := func(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/billing", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("paid_amount records an initial payment", func(t *testing.T) {
		router, billRepo, customerID := newBillingTestRouter(t)

		w := postBill(t, router, `{
			"customer_id": "`+customerID.String()+`",
			"payment_method": "cash",
			"paid_amount": 5.00,
			"items": [{"item_type": "service", "item_name": "Exam", "quantity": 1, "unit_price": 10.00}]
		}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NotNil(t, billRepo.initialPayment)
		assert.Equal(t, int64(500), billRepo.initialPayment.Amount)
		assert.Equal(t, int64(500), billRepo.createdBill.Paid)
	})

	t.Run("initial_payment still accepted as alias", func(t *testing.T) {
		router, billRepo, customerID := newBillingTestRouter(t)

		w := postBill(t, router, `{
			"customer_id": "`+customerID.String()+`",
			"payment_method": "card",
			"initial_payment": 2.50,
			"items": [{"item_type": "service", "item_name": "Exam", "quantity": 1, "unit_price": 10.00}]
		}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NotNil(t, billRepo.initialPayment)
		assert.Equal(t, int64(250), billRepo.initialPayment.Amount)
	})

	t.Run("no payment fields leaves the bill unpaid", func(t *testing.T) {
		router, billRepo, customerID := newBillingTestRouter(t)

		w := postBill(t, router, `{
			"customer_id": "`+customerID.String()+`",
			"items": [{"item_type": "service", "item_name": "Exam", "quantity": 1, "unit_price": 10.00}]
		}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Nil(t, billRepo.initialPayment)
		assert.Equal(t, int64(0), billRepo.createdBill.Paid)
	})
}
