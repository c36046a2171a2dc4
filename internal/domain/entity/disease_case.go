package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmark/vetcare-api/internal/domain/enum"
)

// DiseaseCase tracks a diagnosed disease for outbreak analytics
type DiseaseCase struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PetID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"pet_id"`
	MedicalRecordID *uuid.UUID      `gorm:"type:uuid;index" json:"medical_record_id,omitempty"`
	DiseaseName     string          `gorm:"size:255;not null;index" json:"disease_name"`
	DiagnosisDate   time.Time       `gorm:"type:date;not null" json:"diagnosis_date"`
	Status          enum.CaseStatus `gorm:"size:50;default:'active'" json:"status"`
	Severity        *string         `gorm:"size:50" json:"severity,omitempty"`
	City            *string         `gorm:"size:100;index" json:"city,omitempty"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Pet           *Pet           `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	MedicalRecord *MedicalRecord `gorm:"foreignKey:MedicalRecordID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new disease case
func (d *DiseaseCase) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiseaseCase model
func (DiseaseCase) TableName() string {
	return "disease_cases"
}
