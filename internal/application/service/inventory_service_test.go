package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/pkg/apperror"
)

func newInventoryFixture() (*InventoryService, *fakeInventoryRepo) {
	repo := &fakeInventoryRepo{items: map[uuid.UUID]*entity.InventoryItem{}}
	return NewInventoryService(repo), repo
}

func TestCreateInventoryItem(t *testing.T) {
	ctx := context.Background()

	t.Run("stores price in cents", func(t *testing.T) {
		svc, _ := newInventoryFixture()

		item, err := svc.CreateInventoryItem(ctx, &CreateInventoryItemInput{
			Name:      "Amoxicillin 250mg",
			SKU:       "MED-AMX-250",
			Quantity:  40,
			UnitPrice: 12.75,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1275), item.UnitPrice)
	})

	t.Run("duplicate SKU", func(t *testing.T) {
		svc, repo := newInventoryFixture()
		existingID := uuid.New()
		repo.items[existingID] = &entity.InventoryItem{ID: existingID, SKU: "MED-AMX-250"}

		_, err := svc.CreateInventoryItem(ctx, &CreateInventoryItemInput{
			Name: "Amoxicillin 250mg",
			SKU:  "MED-AMX-250",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})

	t.Run("requires name and SKU", func(t *testing.T) {
		svc, _ := newInventoryFixture()

		_, err := svc.CreateInventoryItem(ctx, &CreateInventoryItemInput{SKU: "X"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

		_, err = svc.CreateInventoryItem(ctx, &CreateInventoryItemInput{Name: "X"})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})
}

func TestAdjustQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("applies delta", func(t *testing.T) {
		svc, repo := newInventoryFixture()
		id := uuid.New()
		repo.items[id] = &entity.InventoryItem{ID: id, Name: "Syringes", Quantity: 10}

		item, err := svc.AdjustQuantity(ctx, id, -4)
		require.NoError(t, err)
		assert.Equal(t, 6, item.Quantity)
		assert.Equal(t, -4, repo.lastDelta)
	})

	t.Run("zero delta", func(t *testing.T) {
		svc, _ := newInventoryFixture()

		_, err := svc.AdjustQuantity(ctx, uuid.New(), 0)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc, _ := newInventoryFixture()

		_, err := svc.AdjustQuantity(ctx, uuid.New(), 5)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
	})

	t.Run("would go below zero", func(t *testing.T) {
		svc, repo := newInventoryFixture()
		id := uuid.New()
		repo.items[id] = &entity.InventoryItem{ID: id, Name: "Syringes", Quantity: 2}
		repo.adjustErr = repository.ErrInsufficientStock

		_, err := svc.AdjustQuantity(ctx, id, -5)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	})
}

func TestUpdateInventoryItemMetadata(t *testing.T) {
	ctx := context.Background()
	svc, repo := newInventoryFixture()

	id := uuid.New()
	repo.items[id] = &entity.InventoryItem{ID: id, Name: "Gauze", Quantity: 30, UnitPrice: 500}

	newPrice := 6.25
	newLevel := 10
	item, err := svc.UpdateInventoryItem(ctx, id, &UpdateInventoryItemInput{
		UnitPrice:    &newPrice,
		ReorderLevel: &newLevel,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(625), item.UnitPrice)
	assert.Equal(t, 10, item.ReorderLevel)
	// Quantity stays untouched by metadata edits
	assert.Equal(t, 30, item.Quantity)
}
