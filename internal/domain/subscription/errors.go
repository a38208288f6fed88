package subscription

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAccessDenied         = errors.New("no access to this subscription")
	ErrNotOwner             = errors.New("only the owner may modify this subscription")
	ErrSharingNotAllowed    = errors.New("sharing subscriptions requires a premium account")
	ErrUserMissing          = errors.New("referenced user does not exist")
	ErrCategoryMissing      = errors.New("referenced category does not exist")
	ErrInvalidInput         = errors.New("invalid input")
)
