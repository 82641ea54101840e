package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionUserSignIn         = "user.sign_in"
	AuditActionUserOnboard        = "user.onboard"
	AuditActionDoctorApply        = "doctor.apply"
	AuditActionDoctorApprove      = "doctor.approve"
	AuditActionDoctorTerminate    = "doctor.terminate"
	AuditActionDoctorSettings     = "doctor.settings"
	AuditActionAppointmentCreate  = "appointment.create"
	AuditActionAppointmentRespond = "appointment.respond"
	AuditActionReviewCreate       = "review.create"
)
