package repository

import (
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, doctorID *uuid.UUID) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error
	DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
