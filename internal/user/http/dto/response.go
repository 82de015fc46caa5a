package dto

import (
	"time"

	"github.com/centrala/rainfall-gate/internal/user/domain"
)

// RegisterResponse carries the credential minted at registration.
type RegisterResponse struct {
	APIKey string `json:"apiKey"`
}

// CreatedUserResponse is returned when an administrator creates an account.
type CreatedUserResponse struct {
	Email     string    `json:"email"`
	APIKey    string    `json:"apiKey"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapCreatedUserToResponse builds the response for an administratively created account.
func MapCreatedUserToResponse(user *domain.User, credential string) CreatedUserResponse {
	return CreatedUserResponse{
		Email:     user.Email,
		APIKey:    credential,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse is returned on a successful login. The token is also set as a cookie.
type LoginResponse struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is the administrative view of a user. Password secrets and
// credentials are never exposed.
type UserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	IsAdmin    bool       `json:"isAdmin"`
	HasAPIKey  bool       `json:"hasApiKey"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MapUserToResponse converts a domain user to its administrative view.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		Email:      user.Email,
		IsAdmin:    user.IsAdmin,
		HasAPIKey:  user.CurrentCredential != nil,
		CreatedAt:  user.CreatedAt,
		LastUsedAt: user.LastUsedAt,
	}
}

// MapUsersToListResponse converts a page of users.
func MapUsersToListResponse(users []*domain.User) ListUsersResponse {
	data := make([]UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, MapUserToResponse(user))
	}
	return ListUsersResponse{Data: data}
}
