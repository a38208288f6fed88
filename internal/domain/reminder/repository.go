package reminder

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context) ([]Reminder, error)
	GetByID(ctx context.Context, id string) (*Reminder, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]Reminder, error)
	// ListDue returns active reminders due on or before the given date.
	ListDue(ctx context.Context, date time.Time) ([]Reminder, error)
	Create(ctx context.Context, reminder *Reminder) error
	Update(ctx context.Context, reminder *Reminder) error
	Delete(ctx context.Context, id string) (bool, error)
	// DeactivateBySubscription flips isActive off for every active reminder of
	// the subscription and returns the number of rows affected.
	DeactivateBySubscription(ctx context.Context, subscriptionID string) (int64, error)
}
