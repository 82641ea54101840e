package usecase

import (
	"context"

	"go-medical-marketplace/internal/converter"
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const notificationListLimit = 50

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(db *gorm.DB, log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (u *notificationUsecase) List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error) {
	db := u.db.WithContext(ctx)

	notifications, err := u.notificationRepo.FindByUserID(db, userID, notificationListLimit)
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	unread, err := u.notificationRepo.CountUnread(db, userID)
	if err != nil {
		u.log.Warnf("Failed to count unread notifications: %+v", err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Unread:        unread,
	}, nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error) {
	updated, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return nil, err
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}
