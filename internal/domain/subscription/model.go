package subscription

import (
	"fmt"
	"strings"
	"time"

	"subtrack-go/internal/domain/user"
)

type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

func ParseBillingCycle(value string) (BillingCycle, error) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(value))) {
	case CycleWeekly:
		return CycleWeekly, nil
	case CycleMonthly:
		return CycleMonthly, nil
	case CycleQuarterly:
		return CycleQuarterly, nil
	case CycleYearly:
		return CycleYearly, nil
	default:
		return "", fmt.Errorf("unknown billing cycle %q", value)
	}
}

const defaultColor = "#8b5cf6"

type Subscription struct {
	ID                   string       `gorm:"type:uuid;primaryKey"`
	Name                 string       `gorm:"not null"`
	Price                float64      `gorm:"not null"`
	BillingCycle         BillingCycle `gorm:"type:text;not null;default:monthly"`
	NextBillingDate      time.Time    `gorm:"type:date;not null"`
	CancellationDeadline *time.Time   `gorm:"type:date"`
	IsActive             bool         `gorm:"not null;default:true"`
	Notes                *string
	Color                string    `gorm:"not null;default:#8b5cf6"`
	SharedWith           []string  `gorm:"serializer:json"`
	UserID               string    `gorm:"type:uuid;index;not null"`
	CategoryID           string    `gorm:"type:uuid;index;not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

// Actor is the caller identity as claimed via headers.
type Actor struct {
	UserID string
	Role   user.Role
}

// CanRead reports whether the actor may see the subscription: admins, the
// owner, and anyone on the shared-with list.
func (s *Subscription) CanRead(actor Actor) bool {
	if actor.Role == user.RoleAdmin || s.UserID == actor.UserID {
		return true
	}
	for _, id := range s.SharedWith {
		if id != "" && id == actor.UserID {
			return true
		}
	}
	return false
}

// CanModify reports whether the actor may update or delete the subscription.
// Shared access is read-only.
func (s *Subscription) CanModify(actor Actor) bool {
	return actor.Role == user.RoleAdmin || s.UserID == actor.UserID
}

type CreateSubscriptionInput struct {
	Name                 string
	Price                float64
	BillingCycle         string
	NextBillingDate      time.Time
	CancellationDeadline *time.Time
	IsActive             *bool
	Notes                *string
	Color                string
	UserID               string
	CategoryID           string
}

type UpdateSubscriptionInput struct {
	Name                 *string
	Price                *float64
	BillingCycle         *string
	NextBillingDate      *time.Time
	CancellationDeadline *time.Time
	IsActive             *bool
	Notes                *string
	Color                *string
	CategoryID           *string
}
