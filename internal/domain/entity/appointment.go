package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/enum"
)

// Appointment represents a scheduled clinic visit
type Appointment struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	PetID           uuid.UUID              `gorm:"type:uuid;not null;index" json:"pet_id"`
	CustomerID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	VeterinarianID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"veterinarian_id"`
	ScheduledAt     time.Time              `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int                    `gorm:"default:30" json:"duration_minutes"`
	Reason          string                 `gorm:"size:255" json:"reason"`
	Status          enum.AppointmentStatus `gorm:"size:50;default:'scheduled'" json:"status"`
	Notes           *string                `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	DeletedAt       gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relationships
	Pet          *Pet      `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Customer     *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Veterinarian *User     `gorm:"foreignKey:VeterinarianID" json:"veterinarian,omitempty"`
}

// BeforeCreate generates a UUID before creating a new appointment
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// EndsAt returns the time the appointment is expected to finish
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two appointments occupy overlapping time slots
func (a *Appointment) Overlaps(other *Appointment) bool {
	return a.ScheduledAt.Before(other.EndsAt()) && other.ScheduledAt.Before(a.EndsAt())
}
