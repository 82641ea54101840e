package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account created on first external sign-in
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name        string    `gorm:"type:varchar(255);not null;default:''" json:"name"`
	Image       string    `gorm:"type:text;not null;default:''" json:"image"`
	Phone       *string   `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Role        Role      `gorm:"type:user_role;not null;default:'PATIENT'" json:"role"`
	IsOnboarded bool      `gorm:"not null;default:false" json:"is_onboarded"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:UserID" json:"doctor,omitempty"`
}

func (User) TableName() string {
	return "users"
}
