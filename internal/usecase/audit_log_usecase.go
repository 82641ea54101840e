package usecase

import (
	"context"

	"go-medical-marketplace/internal/converter"
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

type AuditLogUsecase interface {
	List(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// List returns newest entries first
func (u *auditLogUsecase) List(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	logs, total, err := u.auditLogRepo.FindPage(u.db.WithContext(ctx), (page-1)*limit, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
