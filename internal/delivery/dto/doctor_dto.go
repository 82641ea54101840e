package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type ApplyDoctorRequest struct {
	Name           string    `json:"name" validate:"required,min=2,max=255"`
	Specialization string    `json:"specialization" validate:"required,max=100"`
	District       string    `json:"district" validate:"required,max=100"`
	Experience     string    `json:"experience" validate:"required,max=100"`
	Fees           FeeAmount `json:"fees" validate:"gt=0"`
	Phone          string    `json:"phone" validate:"required,phone"`
}

type DoctorSearchRequest struct {
	Specializations []string
	Districts       []string
	SearchTerm      string
	LocationTerm    string
	MaxFee          int
}

type UpdateDoctorSettingsRequest struct {
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Fees        *string `json:"fees"`
	Experience  *string `json:"experience" validate:"omitempty,max=100"`
	District    *string `json:"district" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,phone"`
	MapsURL     *string `json:"mapsUrl" validate:"omitempty,url"`
}

// Response DTOs

type DoctorResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Name            string     `json:"name"`
	Specialization  string     `json:"specialization"`
	District        string     `json:"district"`
	LicenseNumber   *string    `json:"license_number,omitempty"`
	VerificationURL *string    `json:"verification_url,omitempty"`
	Fees            int        `json:"fees"`
	Experience      string     `json:"experience"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	Status          string     `json:"status"`
	IsAvailable     bool       `json:"is_available"`
	Rating          float64    `json:"rating"`
	Reviews         int        `json:"reviews"`
	Phone           *string    `json:"phone,omitempty"`
	MapsURL         *string    `json:"maps_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type DoctorDetailResponse struct {
	Doctor  *DoctorResponse  `json:"doctor"`
	Reviews []ReviewResponse `json:"reviews"`
}

type DashboardStats struct {
	TodayCount    int     `json:"today_count"`
	PendingCount  int     `json:"pending_count"`
	TotalPatients int     `json:"total_patients"`
	Rating        float64 `json:"rating"`
}

type DoctorDashboardResponse struct {
	Doctor       *DoctorResponse       `json:"doctor"`
	Appointments []AppointmentResponse `json:"appointments"`
	Stats        DashboardStats        `json:"stats"`
}
