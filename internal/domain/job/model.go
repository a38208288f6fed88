package job

import "time"

type Type string

const (
	TypeExportSubscriptions Type = "export_subscriptions"
	TypeCheckReminders      Type = "check_reminders"
	TypeImportData          Type = "import_data"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Result is the opaque payload a finished job leaves behind.
type Result map[string]any

// Job is a flat log record: created once, mutated in place by the worker,
// never deleted.
type Job struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	Type        Type       `gorm:"type:text;not null"`
	Status      Status     `gorm:"type:text;not null;default:pending"`
	Progress    int        `gorm:"not null;default:0"`
	Result      Result     `gorm:"serializer:json"`
	Error       *string
	UserID      string     `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	CompletedAt *time.Time
}

// ImportEntry is one row of an import request. The list travels with the
// queued task in memory; it is not persisted on the job row.
type ImportEntry struct {
	Name         string
	Price        float64
	BillingCycle string
	CategoryName string
}

// ExportRow is a subscription flattened for the export result.
type ExportRow struct {
	ID              string
	Name            string
	Price           float64
	BillingCycle    string
	CategoryName    string
	NextBillingDate time.Time
	IsActive        bool
}

// DueReminder is a due, active reminder with its subscription name resolved
// (empty when the reminder is standalone or the subscription is gone).
type DueReminder struct {
	ID               string
	SubscriptionName string
	Title            string
	Description      string
	Type             string
	DueDate          time.Time
}
