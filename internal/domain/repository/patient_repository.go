package repository

import (
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error)
	FindWithRecentAppointments(db *gorm.DB, id uuid.UUID, limit int) (*entity.Patient, error)
}
