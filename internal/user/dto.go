// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Username      string `json:"username"      validate:"required,max=100"`
	Email         string `json:"email"         validate:"required,email,max=255"`
	Password      string `json:"password"      validate:"required,min=6,containsdigit,max=128"`
	FirstName     string `json:"firstName"     validate:"required,max=100"`
	LastSurname   string `json:"lastSurname"   validate:"required,max=100"`
	SecondSurname string `json:"secondSurname" validate:"required,max=100"`
	Role          string `json:"role,omitempty"`
}

// UpdateUserRequest applies a partial update: only non-nil fields are
// written. An incoming password is re-hashed before persisting, never
// stored as supplied.
type UpdateUserRequest struct {
	Username      *string `json:"username,omitempty"      validate:"omitempty,min=1,max=100"`
	Email         *string `json:"email,omitempty"         validate:"omitempty,email,max=255"`
	Password      *string `json:"password,omitempty"      validate:"omitempty,min=6,containsdigit,max=128"`
	FirstName     *string `json:"firstName,omitempty"     validate:"omitempty,min=1,max=100"`
	LastSurname   *string `json:"lastSurname,omitempty"   validate:"omitempty,min=1,max=100"`
	SecondSurname *string `json:"secondSurname,omitempty" validate:"omitempty,min=1,max=100"`
	Role          *string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastSurname   string    `json:"lastSurname"`
	SecondSurname string    `json:"secondSurname"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	SortBy   string
	Order    string
	Filter   string
}

// Normalize applies the boundary-layer defaults. The service assumes the
// params are already normalized.
func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	if p.SortBy == "" {
		p.SortBy = "id"
	}
	if p.Order != "desc" {
		p.Order = "asc"
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastSurname:   u.LastSurname,
		SecondSurname: u.SecondSurname,
		Role:          u.Role,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
