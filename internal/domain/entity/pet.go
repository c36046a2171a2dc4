package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pet represents an animal registered with the clinic
type Pet struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Species     string         `gorm:"size:100;not null" json:"species"`
	Breed       *string        `gorm:"size:100" json:"breed,omitempty"`
	Sex         *string        `gorm:"size:10" json:"sex,omitempty"`
	DateOfBirth *time.Time     `gorm:"type:date" json:"date_of_birth,omitempty"`
	WeightGrams *int           `json:"weight_grams,omitempty"`
	MicrochipNo *string        `gorm:"size:100" json:"microchip_no,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Appointments   []Appointment   `gorm:"foreignKey:PetID" json:"-"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:PetID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new pet
func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Pet model
func (Pet) TableName() string {
	return "pets"
}
