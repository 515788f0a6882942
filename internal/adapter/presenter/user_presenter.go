package presenter

import (
	authdto "github.com/gravity-notes/gravity/internal/adapter/dto/auth"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// UserResponse maps a user entity to its public representation. The
// password hash never leaves the entity.
func UserResponse(user *entities.User) *authdto.UserResponse {
	return &authdto.UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		Name:        user.Name,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
