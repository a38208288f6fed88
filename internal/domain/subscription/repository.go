package subscription

import "context"

type Repository interface {
	List(ctx context.Context) ([]Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Create(ctx context.Context, subscription *Subscription) error
	Update(ctx context.Context, subscription *Subscription) error
	// Delete removes the subscription together with its reminders.
	Delete(ctx context.Context, id string) (bool, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
}
