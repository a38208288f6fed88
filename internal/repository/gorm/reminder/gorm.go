package reminder

import (
	"context"
	"errors"
	"time"

	reminderdomain "subtrack-go/internal/domain/reminder"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context) ([]reminderdomain.Reminder, error) {
	var reminders []reminderdomain.Reminder
	if err := r.db.WithContext(ctx).
		Order("reminder_date asc").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*reminderdomain.Reminder, error) {
	var reminder reminderdomain.Reminder
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reminderdomain.ErrReminderNotFound
		}
		return nil, err
	}
	return &reminder, nil
}

func (r *GormRepository) ListBySubscription(ctx context.Context, subscriptionID string) ([]reminderdomain.Reminder, error) {
	var reminders []reminderdomain.Reminder
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("reminder_date asc").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *GormRepository) ListDue(ctx context.Context, date time.Time) ([]reminderdomain.Reminder, error) {
	var reminders []reminderdomain.Reminder
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND reminder_date <= ?", true, date).
		Order("reminder_date asc").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *GormRepository) Create(ctx context.Context, reminder *reminderdomain.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *GormRepository) Update(ctx context.Context, reminder *reminderdomain.Reminder) error {
	return r.db.WithContext(ctx).
		Model(&reminderdomain.Reminder{}).
		Where("id = ?", reminder.ID).
		Updates(map[string]interface{}{
			"subscription_id": reminder.SubscriptionID,
			"reminder_date":   reminder.ReminderDate,
			"type":            reminder.Type,
			"is_active":       reminder.IsActive,
			"title":           reminder.Title,
			"description":     reminder.Description,
		}).Error
}

func (r *GormRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&reminderdomain.Reminder{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *GormRepository) DeactivateBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&reminderdomain.Reminder{}).
		Where("subscription_id = ? AND is_active = ?", subscriptionID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
