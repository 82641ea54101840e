package repository

import (
	"errors"

	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, doctorID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Preload("Doctor").Preload("Patient")
	if doctorID != nil {
		query = query.Where("doctor_id = ?", *doctorID)
	}
	err := query.Order("created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *appointmentRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
