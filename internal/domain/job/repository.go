package job

import (
	"context"
	"time"
)

// Repository covers the job rows plus the read and write access the three
// job procedures need on the rest of the schema.
type Repository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobsByUser(ctx context.Context, userID string) ([]Job, error)
	UpdateProgress(ctx context.Context, id string, status Status, progress int) error
	MarkCompleted(ctx context.Context, id string, result Result, completedAt time.Time) error
	MarkFailed(ctx context.Context, id string, message string, completedAt time.Time) error

	ListSubscriptionsForExport(ctx context.Context, userID string) ([]ExportRow, error)
	ListDueReminders(ctx context.Context, date time.Time) ([]DueReminder, error)
	CreateImportedSubscription(ctx context.Context, userID, categoryID string, entry ImportEntry, nextBillingDate time.Time) error
}
