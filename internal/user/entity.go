// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User follows the two-surname naming convention of the source data model.
type User struct {
	ID            int64     `db:"id"`
	Username      string    `db:"username"`
	Email         string    `db:"email"`
	FirstName     string    `db:"first_name"`
	LastSurname   string    `db:"last_surname"`
	SecondSurname string    `db:"second_surname"`
	PasswordHash  string    `db:"password_hash"`
	Role          string    `db:"role"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Role is an open tag set; these are the two values the API hands out
// itself, but stored roles are not otherwise validated.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
