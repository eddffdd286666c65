package dto

import "github.com/spec-kit/ticket-board/internal/domain"

// UserPayload is one user as sent by the remote endpoint.
type UserPayload struct {
	ID        FlexibleID `json:"id"`
	Name      string     `json:"name"`
	Available bool       `json:"available,omitempty"`
}

// UserResponse is a user entry.
type UserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewUserResponse renders a user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name}
}
