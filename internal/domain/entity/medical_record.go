package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalRecord represents a single visit's clinical findings for a pet
type MedicalRecord struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PetID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"pet_id"`
	VeterinarianID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"veterinarian_id"`
	AppointmentID   *uuid.UUID     `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	VisitDate       time.Time      `gorm:"type:date;not null" json:"visit_date"`
	Diagnosis       string         `gorm:"type:text" json:"diagnosis"`
	Treatment       *string        `gorm:"type:text" json:"treatment,omitempty"`
	Prescription    *string        `gorm:"type:text" json:"prescription,omitempty"`
	IsVaccination   bool           `gorm:"default:false" json:"is_vaccination"`
	VaccinationName *string        `gorm:"size:255" json:"vaccination_name,omitempty"`
	FollowUpDate    *time.Time     `gorm:"type:date" json:"follow_up_date,omitempty"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pet          *Pet         `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Veterinarian *User        `gorm:"foreignKey:VeterinarianID" json:"veterinarian,omitempty"`
	Appointment  *Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new medical record
func (m *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MedicalRecord model
func (MedicalRecord) TableName() string {
	return "medical_records"
}
