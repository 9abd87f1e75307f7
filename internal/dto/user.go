package dto

import (
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

// UserDTO is the full user record. The password hash is never included.
type UserDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DateJoined   time.Time `json:"date_joined"`
	UpdatedDate  time.Time `json:"updated_date"`
	IsAdmin      bool      `json:"is_admin"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	IsSuperadmin bool      `json:"is_superadmin"`
}

// UserSummaryDTO is the short user view embedded in task listings
type UserSummaryDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		DateJoined:   user.DateJoined,
		UpdatedDate:  user.UpdatedDate,
		IsAdmin:      user.IsAdmin,
		IsStaff:      user.IsStaff,
		IsActive:     user.IsActive,
		IsSuperadmin: user.IsSuperadmin,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
}

// DataResponse wraps a created or updated resource with a status message
type DataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// TokenPairResponse is returned by the token endpoint
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse is returned by the refresh endpoint
type AccessTokenResponse struct {
	Access string `json:"access"`
}
