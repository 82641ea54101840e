package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is patient feedback on a doctor
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text;not null;default:''" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// AverageRating is the arithmetic mean of the given ratings, 0 when empty
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
