package repository

import (
	"errors"

	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSearchLimit = 50

// columns rewritten when an onboarding submission hits an existing profile
var doctorResubmitColumns = []string{
	"phone",
	"specialization",
	"district",
	"license_number",
	"fees",
	"experience",
	"description",
	"verification_url",
	"status",
	"updated_at",
}

// columns a doctor may change from the settings page
var doctorSettingsColumns = []string{
	"district",
	"fees",
	"experience",
	"description",
	"phone",
	"maps_url",
	"updated_at",
}

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) Upsert(db *gorm.DB, doctor *entity.Doctor) error {
	doctor.Resubmit()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(doctorResubmitColumns),
	}).Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) Search(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor

	query := db.Model(&entity.Doctor{}).Where("status = ?", entity.DoctorStatusActive)

	if len(filter.Specializations) > 0 {
		query = query.Where("specialization IN ?", filter.Specializations)
	}
	if len(filter.Districts) > 0 {
		query = query.Where("district IN ?", filter.Districts)
	}
	if filter.SearchTerm != "" {
		term := "%" + filter.SearchTerm + "%"
		query = query.Where("(name ILIKE ? OR specialization ILIKE ?)", term, term)
	}
	if filter.LocationTerm != "" {
		query = query.Where("district ILIKE ?", "%"+filter.LocationTerm+"%")
	}
	if filter.MaxFee > 0 {
		query = query.Where("fees <= ?", filter.MaxFee)
	}

	limit := filter.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	err := query.Order("rating DESC").Limit(limit).Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, status entity.DoctorStatus) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindAllWithAppointments(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Preload("Appointments").Order("created_at DESC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateAvailability(db *gorm.DB, id uuid.UUID, available bool) error {
	return db.Model(&entity.Doctor{}).Where("id = ?", id).Update("is_available", available).Error
}

func (r *doctorRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) error {
	return db.Model(&entity.Doctor{}).Where("id = ?", id).Update("status", status).Error
}

func (r *doctorRepository) UpdateSettings(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Model(doctor).Select(doctorSettingsColumns).Updates(doctor).Error
}

func (r *doctorRepository) UpdateRating(db *gorm.DB, id uuid.UUID, rating float64, reviews int) error {
	return db.Model(&entity.Doctor{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":  rating,
		"reviews": reviews,
	}).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}
