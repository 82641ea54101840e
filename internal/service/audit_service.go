package service

import (
	"context"

	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, actorID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actorID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, actorID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		UserID: actorID,
		Action: action,
		Metadata: datatypes.JSONMap{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
