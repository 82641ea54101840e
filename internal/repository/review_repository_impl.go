package repository

import (
	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Omit("Patient").Create(review).Error
}

func (r *reviewRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	err := db.Preload("Patient", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "image")
	}).Where("doctor_id = ?", doctorID).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) RatingsByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]int, error) {
	var ratings []int
	err := db.Model(&entity.Review{}).Where("doctor_id = ?", doctorID).Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *reviewRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.Review{})
	return result.RowsAffected, result.Error
}
