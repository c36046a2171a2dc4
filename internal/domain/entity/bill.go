package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/pkg/money"
)

// Bill represents a billing event for a customer visit.
// All monetary fields are stored in cents; percentages in basis points.
type Bill struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillNo        string             `gorm:"size:100;unique;not null" json:"bill_no"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	AppointmentID *uuid.UUID         `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	BillDate      time.Time          `gorm:"type:date;not null" json:"bill_date"`
	DueDate       *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	SubTotal      int64              `gorm:"default:0" json:"-"`
	DiscountBP    int64              `gorm:"default:0;column:discount_bp" json:"-"`
	Discount      int64              `gorm:"default:0" json:"-"`
	TaxBP         int64              `gorm:"default:0;column:tax_bp" json:"-"`
	Tax           int64              `gorm:"default:0" json:"-"`
	Total         int64              `gorm:"default:0" json:"-"`
	Paid          int64              `gorm:"default:0" json:"-"`
	Balance       int64              `gorm:"default:0" json:"-"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	PaymentMethod enum.PaymentMethod `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Customer    *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
	Items       []BillItem   `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal        float64 `json:"sub_total"`
		DiscountPercent float64 `json:"discount_percentage"`
		Discount        float64 `json:"discount_amount"`
		TaxPercent      float64 `json:"tax_percentage"`
		Tax             float64 `json:"tax_amount"`
		Total           float64 `json:"total_amount"`
		Paid            float64 `json:"paid_amount"`
		Balance         float64 `json:"balance_amount"`
	}{
		Alias:           Alias(b),
		SubTotal:        money.FromCents(b.SubTotal),
		DiscountPercent: money.FromBasisPoints(b.DiscountBP),
		Discount:        money.FromCents(b.Discount),
		TaxPercent:      money.FromBasisPoints(b.TaxBP),
		Tax:             money.FromCents(b.Tax),
		Total:           money.FromCents(b.Total),
		Paid:            money.FromCents(b.Paid),
		Balance:         money.FromCents(b.Balance),
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// DerivePaymentStatus returns the payment status implied by paid vs total.
// Cancelled is a terminal override and is never derived.
func DerivePaymentStatus(paid, total int64) enum.PaymentStatus {
	switch {
	case paid <= 0:
		return enum.PaymentStatusUnpaid
	case paid < total:
		return enum.PaymentStatusPartiallyPaid
	default:
		return enum.PaymentStatusFullyPaid
	}
}

// Recalculate recomputes the derived monetary fields from SubTotal, the
// discount/tax settings and Paid. The percentage discount takes precedence
// over a flat discount amount when both are set.
func (b *Bill) Recalculate() {
	if b.DiscountBP > 0 {
		b.Discount = money.PercentOf(b.SubTotal, b.DiscountBP)
	}
	taxable := b.SubTotal - b.Discount
	if b.TaxBP > 0 {
		b.Tax = money.PercentOf(taxable, b.TaxBP)
	} else {
		b.Tax = 0
	}
	b.Total = taxable + b.Tax
	b.Balance = b.Total - b.Paid
	if b.PaymentStatus != enum.PaymentStatusCancelled {
		b.PaymentStatus = DerivePaymentStatus(b.Paid, b.Total)
	}
}

// IsCancelled reports whether the bill is in the terminal cancelled state
func (b *Bill) IsCancelled() bool {
	return b.PaymentStatus == enum.PaymentStatusCancelled
}

// BillItem represents a line item on a bill. The name and unit price are a
// snapshot at billing time and do not follow later inventory edits.
type BillItem struct {
	ID              uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	BillID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"bill_id"`
	ItemType        enum.ItemType `gorm:"size:50;not null" json:"item_type"`
	InventoryItemID *uuid.UUID    `gorm:"type:uuid;index" json:"inventory_item_id,omitempty"`
	Name            string        `gorm:"size:255;not null" json:"item_name"`
	Quantity        int           `gorm:"not null" json:"quantity"`
	UnitPrice       int64         `gorm:"not null" json:"-"`
	Discount        int64         `gorm:"default:0" json:"-"`
	Total           int64         `gorm:"not null" json:"-"`
	CreatedAt       time.Time     `json:"created_at"`

	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: money.FromCents(i.UnitPrice),
		Discount:  money.FromCents(i.Discount),
		Total:     money.FromCents(i.Total),
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// Payment represents one payment transaction recorded against a bill
type Payment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"bill_id"`
	Amount     int64              `gorm:"not null" json:"-"`
	PaidAt     time.Time          `gorm:"not null" json:"paid_at"`
	Method     enum.PaymentMethod `gorm:"size:50;not null" json:"payment_method"`
	Reference  *string            `gorm:"size:255" json:"payment_reference,omitempty"`
	CardType   *string            `gorm:"size:50" json:"card_type,omitempty"`
	BankName   *string            `gorm:"size:255" json:"bank_name,omitempty"`
	Notes      string             `gorm:"type:text" json:"notes,omitempty"`
	ReceivedBy uuid.UUID          `gorm:"type:uuid;not null" json:"received_by"`
	CreatedAt  time.Time          `json:"created_at"`

	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: money.FromCents(p.Amount),
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
