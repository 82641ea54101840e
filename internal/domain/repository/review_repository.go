package repository

import (
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error)
	RatingsByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]int, error)
	DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
