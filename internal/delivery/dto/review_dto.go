package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID        uuid.UUID       `json:"id"`
	DoctorID  uuid.UUID       `json:"doctor_id"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
	Patient   *PatientSummary `json:"patient,omitempty"`
}
