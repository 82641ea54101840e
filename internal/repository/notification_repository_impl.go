package repository

import (
	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
