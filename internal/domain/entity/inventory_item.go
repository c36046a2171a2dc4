package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/pkg/money"
)

// InventoryItem represents a stocked medicine, consumable or retail product
type InventoryItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Category     string         `gorm:"size:100" json:"category"`
	SKU          string         `gorm:"size:100;unique;not null" json:"sku"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	Quantity     int            `gorm:"default:0" json:"quantity"`
	ReorderLevel int            `gorm:"default:0" json:"reorder_level"`
	UnitPrice    int64          `gorm:"not null" json:"-"`
	ExpiryDate   *time.Time     `gorm:"type:date" json:"expiry_date,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i InventoryItem) MarshalJSON() ([]byte, error) {
	type Alias InventoryItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.FromCents(i.UnitPrice),
	})
}

// BeforeCreate generates a UUID before creating a new inventory item
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InventoryItem model
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the on-hand quantity has reached the reorder level
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
