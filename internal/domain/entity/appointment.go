package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// PaymentStatus is only used by admin reporting
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidTransition = errors.New("invalid appointment status transition")
	ErrInvalidDate       = errors.New("invalid date format, use YYYY-MM-DD")
)

// Appointment is a booking request from a patient to a doctor
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName   string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	Date          string            `gorm:"type:varchar(10);not null;index" json:"date"`
	Time          string            `gorm:"type:varchar(20);not null" json:"time"`
	Contact       *string           `gorm:"type:varchar(32)" json:"contact,omitempty"`
	Reason        string            `gorm:"type:text;not null;default:''" json:"reason"`
	Status        AppointmentStatus `gorm:"type:appointment_status;not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus     `gorm:"type:payment_status;not null;default:'Unpaid'" json:"payment_status"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsTerminal reports whether no further response is accepted
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCancelled || a.Status == AppointmentStatusCompleted
}

func (a *Appointment) IsPaid() bool {
	return a.PaymentStatus == PaymentStatusPaid
}

// Respond applies a doctor's accept/decline. It reports whether the status
// changed; re-applying the current status is a no-op.
func (a *Appointment) Respond(target AppointmentStatus) (bool, error) {
	if target != AppointmentStatusConfirmed && target != AppointmentStatusCancelled {
		return false, ErrInvalidTransition
	}
	if a.Status == target {
		return false, nil
	}
	switch {
	case a.IsPending():
	case a.IsConfirmed() && target == AppointmentStatusCancelled:
	default:
		return false, ErrInvalidTransition
	}
	a.Status = target
	return true, nil
}

// NormalizeDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns YYYY-MM-DD
func NormalizeDate(s string) (string, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", ErrInvalidDate
}
