package repository

import (
	"errors"
	"strings"

	"go-medical-marketplace/internal/domain/entity"
	domainRepo "go-medical-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return db.Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// profileColumns are the columns a user may change; role moves only through UpdateRole
var profileColumns = []string{"name", "image", "phone", "is_onboarded", "updated_at"}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Model(user).Select(profileColumns).Updates(user).Error
}

func (r *userRepository) UpdateRole(db *gorm.DB, id uuid.UUID, role entity.Role) error {
	return db.Model(&entity.User{}).Where("id = ?", id).Update("role", role).Error
}
