package converter

import (
	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Image:       user.Image,
		Phone:       user.Phone,
		Role:        string(user.Role),
		IsOnboarded: user.IsOnboarded,
		CreatedAt:   user.CreatedAt,
	}
}

// PrincipalToResponse renders the effective identity, which may carry an
// overridden role
func PrincipalToResponse(p *entity.Principal) *dto.UserResponse {
	if p == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          p.UserID,
		Email:       p.Email,
		Name:        p.Name,
		Image:       p.Image,
		Phone:       p.Phone,
		Role:        string(p.Role),
		IsOnboarded: p.IsOnboarded,
	}
}
