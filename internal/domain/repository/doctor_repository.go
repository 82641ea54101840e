package repository

import (
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	// Upsert inserts or updates the profile keyed by user_id and always resets status to Pending.
	Upsert(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	Search(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error)
	FindAll(db *gorm.DB, status entity.DoctorStatus) ([]entity.Doctor, error)
	FindAllWithAppointments(db *gorm.DB) ([]entity.Doctor, error)
	UpdateAvailability(db *gorm.DB, id uuid.UUID, available bool) error
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) error
	// UpdateSettings writes only the doctor-editable settings columns.
	UpdateSettings(db *gorm.DB, doctor *entity.Doctor) error
	UpdateRating(db *gorm.DB, id uuid.UUID, rating float64, reviews int) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
