package analysis

import "context"

type Repository interface {
	// GetHouseholdSize returns the user's stored household size, or 0 when
	// the user does not exist.
	GetHouseholdSize(ctx context.Context, userID string) (int, error)
	// ListActiveSubscriptions returns the user's active subscriptions with
	// category names resolved (empty string when the category is missing).
	ListActiveSubscriptions(ctx context.Context, userID string) ([]SubscriptionCost, error)
}
