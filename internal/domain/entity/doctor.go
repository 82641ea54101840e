package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DoctorStatus controls marketplace visibility of a doctor profile
type DoctorStatus string

const (
	DoctorStatusPending  DoctorStatus = "Pending"
	DoctorStatusActive   DoctorStatus = "Active"
	DoctorStatusInactive DoctorStatus = "Inactive"
	DoctorStatusWarning  DoctorStatus = "Warning"
)

const DefaultDoctorImage = "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=400"

// Doctor is a professional profile, optionally owned by a User
type Doctor struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          *uuid.UUID   `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	Name            string       `gorm:"type:varchar(255);not null" json:"name"`
	Specialization  string       `gorm:"type:varchar(100);not null;index" json:"specialization"`
	District        string       `gorm:"type:varchar(100);not null;index" json:"district"`
	LicenseNumber   *string      `gorm:"type:varchar(100)" json:"license_number,omitempty"`
	VerificationURL *string      `gorm:"type:text" json:"verification_url,omitempty"`
	Fees            int          `gorm:"not null;default:0" json:"fees"`
	Experience      string       `gorm:"type:varchar(100);not null;default:''" json:"experience"`
	Description     string       `gorm:"type:text;not null;default:''" json:"description"`
	Image           string       `gorm:"type:text;not null;default:''" json:"image"`
	Status          DoctorStatus `gorm:"type:doctor_status;not null;default:'Pending';index" json:"status"`
	IsAvailable     bool         `gorm:"not null;default:false" json:"is_available"`
	Rating          float64      `gorm:"not null;default:0" json:"rating"`
	Reviews         int          `gorm:"not null;default:0" json:"reviews"`
	Phone           *string      `gorm:"type:varchar(32)" json:"phone,omitempty"`
	MapsURL         *string      `gorm:"type:text" json:"maps_url,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// IsActive reports whether the doctor passed admin approval
func (d *Doctor) IsActive() bool {
	return d.Status == DoctorStatusActive
}

func (d *Doctor) IsPending() bool {
	return d.Status == DoctorStatusPending
}

// HasOwner reports whether a User account owns this profile
func (d *Doctor) HasOwner() bool {
	return d.UserID != nil && *d.UserID != uuid.Nil
}

// Approve activates the profile. It returns false when already active.
func (d *Doctor) Approve() bool {
	if d.IsActive() {
		return false
	}
	d.Status = DoctorStatusActive
	return true
}

// Resubmit puts the profile back in the approval queue
func (d *Doctor) Resubmit() {
	d.Status = DoctorStatusPending
}

func (d *Doctor) ToggleAvailability() {
	d.IsAvailable = !d.IsAvailable
}

// ParseFee keeps only the digits of s, so "৳1,500" and "1500 BDT" both give 1500.
// The second result is false when s has no digits.
func ParseFee(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	fee, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return fee, true
}

// DoctorFilter is the search predicate for marketplace listing.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Specializations []string
	Districts       []string
	SearchTerm      string // name or specialization, case-insensitive
	LocationTerm    string // district, case-insensitive
	MaxFee          int    // ignored when <= 0
	Limit           int
}
