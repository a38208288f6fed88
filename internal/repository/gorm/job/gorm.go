package job

import (
	"context"
	"errors"
	"time"

	jobdomain "subtrack-go/internal/domain/job"
	reminderdomain "subtrack-go/internal/domain/reminder"
	subscriptiondomain "subtrack-go/internal/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateJob(ctx context.Context, job *jobdomain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *GormRepository) GetJob(ctx context.Context, id string) (*jobdomain.Job, error) {
	var job jobdomain.Job
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jobdomain.ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *GormRepository) ListJobsByUser(ctx context.Context, userID string) ([]jobdomain.Job, error) {
	var jobs []jobdomain.Job
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *GormRepository) UpdateProgress(ctx context.Context, id string, status jobdomain.Status, progress int) error {
	return r.db.WithContext(ctx).
		Model(&jobdomain.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   status,
			"progress": progress,
		}).Error
}

func (r *GormRepository) MarkCompleted(ctx context.Context, id string, result jobdomain.Result, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&jobdomain.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       jobdomain.StatusCompleted,
			"progress":     100,
			"result":       result,
			"completed_at": completedAt,
		}).Error
}

// MarkFailed leaves progress where the job got to.
func (r *GormRepository) MarkFailed(ctx context.Context, id string, message string, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&jobdomain.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       jobdomain.StatusFailed,
			"error":        message,
			"completed_at": completedAt,
		}).Error
}

func (r *GormRepository) ListSubscriptionsForExport(ctx context.Context, userID string) ([]jobdomain.ExportRow, error) {
	var rows []jobdomain.ExportRow
	err := r.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Select(`
			subscriptions.id,
			subscriptions.name,
			subscriptions.price,
			subscriptions.billing_cycle,
			subscriptions.next_billing_date,
			subscriptions.is_active,
			COALESCE(categories.name, '') as category_name`).
		Joins("left join categories on categories.id = subscriptions.category_id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepository) ListDueReminders(ctx context.Context, date time.Time) ([]jobdomain.DueReminder, error) {
	var rows []jobdomain.DueReminder
	err := r.db.WithContext(ctx).
		Model(&reminderdomain.Reminder{}).
		Select(`
			reminders.id,
			reminders.title,
			COALESCE(reminders.description, '') as description,
			reminders.type,
			reminders.reminder_date as due_date,
			COALESCE(subscriptions.name, '') as subscription_name`).
		Joins("left join subscriptions on subscriptions.id = reminders.subscription_id").
		Where("reminders.is_active = ? AND reminders.reminder_date <= ?", true, date).
		Order("reminders.reminder_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepository) CreateImportedSubscription(ctx context.Context, userID, categoryID string, entry jobdomain.ImportEntry, nextBillingDate time.Time) error {
	subscription := subscriptiondomain.Subscription{
		ID:              uuid.NewString(),
		Name:            entry.Name,
		Price:           entry.Price,
		BillingCycle:    subscriptiondomain.BillingCycle(entry.BillingCycle),
		NextBillingDate: nextBillingDate,
		IsActive:        true,
		Color:           "#8b5cf6",
		UserID:          userID,
		CategoryID:      categoryID,
	}
	return r.db.WithContext(ctx).Create(&subscription).Error
}
