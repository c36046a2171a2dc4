package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
	"github.com/pawmark/vetcare-api/pkg/money"
	"github.com/pawmark/vetcare-api/pkg/pagination"
)

// InventoryService handles inventory operations
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// CreateInventoryItemInput represents the create item input
type CreateInventoryItemInput struct {
	Name         string
	Category     string
	SKU          string
	Description  *string
	Quantity     int
	ReorderLevel int
	UnitPrice    float64
	ExpiryDate   *time.Time
}

// CreateInventoryItem adds a new stocked item
func (s *InventoryService) CreateInventoryItem(ctx context.Context, input *CreateInventoryItemInput) (*entity.InventoryItem, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Item name is required")
	}
	if input.SKU == "" {
		return nil, apperror.NewBadRequestError("SKU is required")
	}
	if input.Quantity < 0 || input.UnitPrice < 0 {
		return nil, apperror.NewBadRequestError("Quantity and unit price cannot be negative")
	}

	existing, err := s.inventoryRepo.GetBySKU(ctx, input.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("An item with this SKU already exists")
	}

	item := &entity.InventoryItem{
		Name:         input.Name,
		Category:     input.Category,
		SKU:          input.SKU,
		Description:  input.Description,
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		UnitPrice:    money.ToCents(input.UnitPrice),
		ExpiryDate:   input.ExpiryDate,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetInventoryItem retrieves an item by ID
func (s *InventoryService) GetInventoryItem(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// ListInventory lists items with search and category filtering
func (s *InventoryService) ListInventory(ctx context.Context, params *repository.InventoryFilterParams) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	items, total, err := s.inventoryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ListLowStock lists items at or below their reorder level
func (s *InventoryService) ListLowStock(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	items, total, err := s.inventoryRepo.ListLowStock(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// UpdateInventoryItemInput represents the update item input
type UpdateInventoryItemInput struct {
	Name         *string
	Category     *string
	Description  *string
	ReorderLevel *int
	UnitPrice    *float64
	ExpiryDate   *time.Time
}

// UpdateInventoryItem edits item metadata. Quantity changes go through
// AdjustQuantity so the stock floor stays enforced.
func (s *InventoryService) UpdateInventoryItem(ctx context.Context, id uuid.UUID, input *UpdateInventoryItemInput) (*entity.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Item name cannot be empty")
		}
		item.Name = *input.Name
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return nil, apperror.NewBadRequestError("Reorder level cannot be negative")
		}
		item.ReorderLevel = *input.ReorderLevel
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Unit price cannot be negative")
		}
		item.UnitPrice = money.ToCents(*input.UnitPrice)
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = input.ExpiryDate
	}

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// AdjustQuantity applies a signed stock delta (restock or manual correction).
// A decrement below zero is rejected as a conflict.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*entity.InventoryItem, error) {
	if delta == 0 {
		return nil, apperror.NewBadRequestError("Adjustment delta cannot be zero")
	}

	existing, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}

	err = s.inventoryRepo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, apperror.NewConflictError("Adjustment would take stock below zero")
		}
		return nil, err
	}

	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Inventory item")
	}
	return item, nil
}

// DeleteInventoryItem soft-deletes an item
func (s *InventoryService) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Inventory item")
	}

	return s.inventoryRepo.Delete(ctx, id)
}
