package analysis

import (
	"context"
	"errors"

	analysisdomain "subtrack-go/internal/domain/analysis"
	subscriptiondomain "subtrack-go/internal/domain/subscription"
	userdomain "subtrack-go/internal/domain/user"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetHouseholdSize(ctx context.Context, userID string) (int, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).
		Select("household_size").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return user.HouseholdSize, nil
}

// ListActiveSubscriptions resolves category names in the same query; the
// COALESCE keeps the select portable across sqlite and postgres.
func (r *GormRepository) ListActiveSubscriptions(ctx context.Context, userID string) ([]analysisdomain.SubscriptionCost, error) {
	var rows []analysisdomain.SubscriptionCost
	err := r.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Select(`
			subscriptions.id,
			subscriptions.name,
			subscriptions.price,
			subscriptions.billing_cycle,
			subscriptions.next_billing_date,
			COALESCE(categories.name, '') as category_name`).
		Joins("left join categories on categories.id = subscriptions.category_id").
		Where("subscriptions.user_id = ? AND subscriptions.is_active = ?", userID, true).
		Order("subscriptions.next_billing_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
