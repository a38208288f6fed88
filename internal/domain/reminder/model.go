package reminder

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeCancellation Type = "cancellation"
	TypeRenewal      Type = "renewal"
	TypePriceChange  Type = "price_change"
	TypeBilling      Type = "billing"
	TypeCustom       Type = "custom"
)

// ParseType accepts an empty value as the default renewal reminder.
func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return TypeRenewal, nil
	case TypeCancellation:
		return TypeCancellation, nil
	case TypeRenewal:
		return TypeRenewal, nil
	case TypePriceChange:
		return TypePriceChange, nil
	case TypeBilling:
		return TypeBilling, nil
	case TypeCustom:
		return TypeCustom, nil
	default:
		return "", fmt.Errorf("unknown reminder type %q", value)
	}
}

// Reminder may reference a subscription or stand alone.
type Reminder struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	SubscriptionID *string    `gorm:"type:uuid;index"`
	ReminderDate   time.Time  `gorm:"type:date;not null"`
	Type           Type       `gorm:"type:text;not null;default:renewal"`
	IsActive       bool       `gorm:"not null;default:true"`
	Title          string     `gorm:"not null"`
	Description    *string
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

type CreateReminderInput struct {
	SubscriptionID *string
	ReminderDate   time.Time
	Type           string
	IsActive       *bool
	Title          string
	Description    *string
}

type UpdateReminderInput struct {
	SubscriptionID *string
	ReminderDate   *time.Time
	Type           *string
	IsActive       *bool
	Title          *string
	Description    *string
}
