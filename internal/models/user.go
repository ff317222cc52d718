package models

import "time"

// Roles assignable to a user. New accounts always start as RoleUser;
// promotion to admin happens out of band.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account that can authenticate against the store.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `gorm:"type:varchar(255)"` // bcrypt hash; no json tag for security
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	Role      string    `json:"role" gorm:"type:varchar(16);default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthUser is the caller identity resolved from a bearer token. A nil
// *AuthUser means the caller is anonymous.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the caller is an authenticated admin.
func (u *AuthUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
