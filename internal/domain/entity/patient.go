package entity

import (
	"time"

	"github.com/google/uuid"
)

const UnknownPatientName = "Unknown Patient"

// Patient is the booking/review identity of a User
type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);not null;default:'';index" json:"email"`
	Image     string     `gorm:"type:text;not null;default:''" json:"image"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}
