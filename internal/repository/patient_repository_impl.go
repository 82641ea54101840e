package repository

import (
	"errors"

	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("user_id = ?", userID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindWithRecentAppointments(db *gorm.DB, id uuid.UUID, limit int) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Preload("Appointments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("date DESC").Limit(limit)
	}).Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
