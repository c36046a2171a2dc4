package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// InventoryFilterParams contains filtering parameters for inventory queries
type InventoryFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
}

// InventoryRepository defines the interface for inventory data operations
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error)
	List(ctx context.Context, params *InventoryFilterParams) ([]entity.InventoryItem, int64, error)
	ListLowStock(ctx context.Context, params *pagination.PaginationParams) ([]entity.InventoryItem, int64, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustQuantity atomically applies a signed delta to the on-hand
	// quantity. A decrement that would take stock negative affects no rows
	// and is reported as ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	CountLowStock(ctx context.Context) (int64, error)
}
