package dto

import (
	"time"

	"github.com/yukikurage/office-task-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never included.
type UserDTO struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

// OfficerDTO is the short form used by officer pickers
type OfficerDTO struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserDTOs converts a list of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, ToUserDTO(user))
	}
	return dtos
}

// ToOfficerDTOs converts users to officer picker entries
func ToOfficerDTOs(users []models.User) []OfficerDTO {
	dtos := make([]OfficerDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, OfficerDTO{ID: user.ID, Name: user.Username, Role: user.Role})
	}
	return dtos
}
