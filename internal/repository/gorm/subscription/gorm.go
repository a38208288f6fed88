package subscription

import (
	"context"
	"errors"

	categorydomain "subtrack-go/internal/domain/category"
	reminderdomain "subtrack-go/internal/domain/reminder"
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

func (r *GormRepository) List(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID string) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*subscriptiondomain.Subscription, error) {
	var subscription subscriptiondomain.Subscription
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subscription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscriptiondomain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *GormRepository) Create(ctx context.Context, subscription *subscriptiondomain.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *GormRepository) Update(ctx context.Context, subscription *subscriptiondomain.Subscription) error {
	return r.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("id = ?", subscription.ID).
		Updates(map[string]interface{}{
			"name":                  subscription.Name,
			"price":                 subscription.Price,
			"billing_cycle":         subscription.BillingCycle,
			"next_billing_date":     subscription.NextBillingDate,
			"cancellation_deadline": subscription.CancellationDeadline,
			"is_active":             subscription.IsActive,
			"notes":                 subscription.Notes,
			"color":                 subscription.Color,
			"shared_with":           subscription.SharedWith,
			"category_id":           subscription.CategoryID,
		}).Error
}

// Delete removes the subscription and its reminders in one transaction so a
// dangling reminder never survives its subscription.
func (r *GormRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&reminderdomain.Reminder{}, "subscription_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&subscriptiondomain.Subscription{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *GormRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *GormRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Where("id = ?", categoryID).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}
