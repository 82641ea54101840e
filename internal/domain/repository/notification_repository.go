package repository

import (
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Notification, error)
	CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error)
	MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error)
}
