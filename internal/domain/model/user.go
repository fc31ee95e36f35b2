package model

import (
	"strings"
	"time"

	"padelpass-backend/internal/domain"
)

// Application roles. ClubUser is a staff account scoped to one or more
// clubs; User is an end customer.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
	RoleClubUser   = "ClubUser"
)

var AllRoles = []string{RoleSuperAdmin, RoleAdmin, RoleUser, RoleClubUser}

// User is an account record supplied by the identity provider.
// PasswordHash never leaves the identity layer.
type User struct {
	ID                    string // UUID
	Email                 string
	PhoneNumber           string
	FullName              string
	PasswordHash          string
	Roles                 []string
	CurrentSubscriptionID *string
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// NewUser validates the minimal account fields.
func NewUser(id, email, phone, fullName string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	phone = strings.TrimSpace(phone)
	if id == "" || email == "" || phone == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:          id,
		Email:       email,
		PhoneNumber: phone,
		FullName:    strings.TrimSpace(fullName),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
