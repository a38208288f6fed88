package user

import (
	"strings"
	"time"
)

// Role is a coarse access tier. It arrives as an unverified client claim in
// the X-Role header; there is no authentication behind it.
type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a header value to a role, falling back to RoleUser for
// absent or unrecognized values.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RolePremium:
		return RolePremium
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

const (
	MinHouseholdSize = 1
	MaxHouseholdSize = 20
)

type User struct {
	ID            string    `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"not null"`
	Role          Role      `gorm:"type:text;not null;default:user"`
	HouseholdSize int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

type CreateUserInput struct {
	Email         string
	Name          string
	Role          Role
	HouseholdSize *int
}

type UpdateUserInput struct {
	Email         *string
	Name          *string
	Role          *Role
	HouseholdSize *int
}
