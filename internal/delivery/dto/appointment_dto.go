package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID    string `json:"doctorId" validate:"required,uuid"`
	PatientName string `json:"patientName" validate:"omitempty,max=255"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required,max=20"`
	Reason      string `json:"reason" validate:"omitempty,max=2000"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
}

type RespondAppointmentRequest struct {
	Action string `json:"action" validate:"required,oneof=confirmed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID            uuid.UUID       `json:"id"`
	DoctorID      uuid.UUID       `json:"doctor_id"`
	PatientID     uuid.UUID       `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Contact       *string         `json:"contact,omitempty"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	Doctor        *DoctorResponse `json:"doctor,omitempty"`
	Patient       *PatientSummary `json:"patient,omitempty"`
}

type PatientSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Image string    `json:"image,omitempty"`
}

type PatientDetailResponse struct {
	PatientSummary
	Appointments []AppointmentResponse `json:"appointments"`
}
