package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	FullName         string     `json:"full_name" db:"full_name"`
	Role             string     `json:"role" db:"role"`
	ClientID         *uuid.UUID `json:"client_id,omitempty" db:"client_id"`
	IsPrimaryContact bool       `json:"is_primary_contact" db:"is_primary_contact"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleStaff  UserRole = "staff"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// HasRole implements the staff hierarchy: admin satisfies staff. The client
// role stands alone; staff never satisfies client and vice versa.
func (u *User) HasRole(requiredRole string) bool {
	switch requiredRole {
	case "admin":
		return u.Role == "admin"
	case "staff":
		return u.Role == "staff" || u.Role == "admin"
	case "client":
		return u.Role == "client"
	default:
		return false
	}
}

func (u *User) IsStaff() bool {
	return u.HasRole("staff")
}

type Client struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	ContactName  *string   `json:"contact_name,omitempty" db:"contact_name"`
	ContactEmail *string   `json:"contact_email,omitempty" db:"contact_email"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
