package job

import (
	"context"
	"fmt"
	"math"
	"time"

	"subtrack-go/internal/domain/category"
	"subtrack-go/pkg/logger"

	"github.com/google/uuid"
)

const defaultQueueSize = 16

type Config struct {
	QueueSize int
	// ExportDelay and ReminderDelay simulate processing cost; zero in tests.
	ExportDelay   time.Duration
	ReminderDelay time.Duration
}

// CategoryResolver maps import category names to categories, creating
// missing ones. Imports go through the category service here rather than
// straight to the table so its list cache is invalidated on the way.
type CategoryResolver interface {
	GetOrCreateByName(ctx context.Context, name string) (*category.Category, error)
}

// Service owns the job queue. Create enqueues and returns immediately; a
// single worker goroutine (Run) performs the state mutations, so job
// transitions are testable independent of the HTTP request lifecycle.
type Service struct {
	repo       Repository
	categories CategoryResolver
	log        logger.Logger
	cfg        Config
	queue      chan task
	now        func() time.Time
}

type task struct {
	jobID   string
	entries []ImportEntry
}

func NewService(repo Repository, categories CategoryResolver, log logger.Logger, cfg Config) *Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	return &Service{
		repo:       repo,
		categories: categories,
		log:        log,
		cfg:        cfg,
		queue:      make(chan task, cfg.QueueSize),
		now:        time.Now,
	}
}

// Run consumes the queue until the context is cancelled. A job in flight
// when the process stops stays visibly "running" forever; there is no
// timeout, heartbeat, or resumption.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("jobs: worker started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("jobs: worker stopped")
			return
		case t := <-s.queue:
			s.execute(ctx, t)
		}
	}
}

// Create inserts a pending job, hands it to the worker, and returns the row.
// The caller contract is: the job now exists, poll its status separately.
func (s *Service) Create(ctx context.Context, jobType Type, userID string) (*Job, error) {
	return s.create(ctx, jobType, userID, nil)
}

// CreateImport is Create for import jobs; the entries ride along with the
// queued task and are never persisted.
func (s *Service) CreateImport(ctx context.Context, userID string, entries []ImportEntry) (*Job, error) {
	return s.create(ctx, TypeImportData, userID, entries)
}

func (s *Service) create(ctx context.Context, jobType Type, userID string, entries []ImportEntry) (*Job, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	record := Job{
		ID:       uuid.NewString(),
		Type:     jobType,
		Status:   StatusPending,
		Progress: 0,
		UserID:   userID,
	}

	if err := s.repo.CreateJob(ctx, &record); err != nil {
		return nil, err
	}

	select {
	case s.queue <- task{jobID: record.ID, entries: entries}:
	default:
		// Queue full: keep the 202 contract and hand over asynchronously.
		go func() { s.queue <- task{jobID: record.ID, entries: entries} }()
	}

	return &record, nil
}

func (s *Service) Status(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Job, error) {
	return s.repo.ListJobsByUser(ctx, userID)
}

func (s *Service) execute(ctx context.Context, t task) {
	record, err := s.repo.GetJob(ctx, t.jobID)
	if err != nil {
		s.log.InternalError("jobs: load job failed", err, "job_id", t.jobID)
		return
	}

	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 10); err != nil {
		s.log.InternalError("jobs: mark running failed", err, "job_id", record.ID)
		return
	}

	var result Result
	switch record.Type {
	case TypeExportSubscriptions:
		result, err = s.runExport(ctx, record)
	case TypeCheckReminders:
		result, err = s.runReminderCheck(ctx, record)
	case TypeImportData:
		result, err = s.runImport(ctx, record, t.entries)
	default:
		result = Result{"message": "Unknown job type"}
	}

	completedAt := s.now().UTC()
	if err != nil {
		s.log.BusinessError("jobs: execution failed", err, "job_id", record.ID, "type", record.Type)
		if markErr := s.repo.MarkFailed(ctx, record.ID, err.Error(), completedAt); markErr != nil {
			s.log.InternalError("jobs: mark failed failed", markErr, "job_id", record.ID)
		}
		return
	}

	if err := s.repo.MarkCompleted(ctx, record.ID, result, completedAt); err != nil {
		s.log.InternalError("jobs: mark completed failed", err, "job_id", record.ID)
		return
	}
	s.log.Info("jobs: completed", "job_id", record.ID, "type", record.Type)
}

func (s *Service) runExport(ctx context.Context, record *Job) (Result, error) {
	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 30); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSubscriptionsForExport(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 60); err != nil {
		return nil, err
	}

	s.sleep(ctx, s.cfg.ExportDelay)

	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 90); err != nil {
		return nil, err
	}

	data := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		categoryName := row.CategoryName
		if categoryName == "" {
			categoryName = "Unbekannt"
		}
		data = append(data, map[string]any{
			"id":              row.ID,
			"name":            row.Name,
			"price":           row.Price,
			"billingCycle":    row.BillingCycle,
			"category":        categoryName,
			"nextBillingDate": row.NextBillingDate.Format("2006-01-02"),
			"isActive":        row.IsActive,
		})
	}

	return Result{
		"exportedAt":         s.now().UTC().Format(time.RFC3339),
		"totalSubscriptions": len(data),
		"format":             "json",
		"data":               data,
	}, nil
}

func (s *Service) runReminderCheck(ctx context.Context, record *Job) (Result, error) {
	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 25); err != nil {
		return nil, err
	}

	today := s.now().UTC()
	due, err := s.repo.ListDueReminders(ctx, today)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 50); err != nil {
		return nil, err
	}

	s.sleep(ctx, s.cfg.ReminderDelay)

	if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, 75); err != nil {
		return nil, err
	}

	notifications := make([]map[string]any, 0, len(due))
	for _, reminder := range due {
		subscriptionName := reminder.SubscriptionName
		if subscriptionName == "" {
			subscriptionName = "Unbekannt"
		}
		notifications = append(notifications, map[string]any{
			"reminderId":       reminder.ID,
			"subscriptionName": subscriptionName,
			"message":          fmt.Sprintf("%s - %s", reminder.Title, reminder.Description),
			"type":             reminder.Type,
			"dueDate":          reminder.DueDate.Format("2006-01-02"),
		})
	}

	return Result{
		"checkedAt":         s.now().UTC().Format(time.RFC3339),
		"dueRemindersCount": len(notifications),
		"notifications":     notifications,
	}, nil
}

func (s *Service) runImport(ctx context.Context, record *Job, entries []ImportEntry) (Result, error) {
	imported := 0
	total := len(entries)

	for i, entry := range entries {
		cat, err := s.categories.GetOrCreateByName(ctx, entry.CategoryName)
		if err != nil {
			return nil, err
		}

		nextBilling := s.now().UTC().AddDate(0, 1, 0)
		if err := s.repo.CreateImportedSubscription(ctx, record.UserID, cat.ID, entry, nextBilling); err != nil {
			return nil, err
		}
		imported++

		progress := int(math.Round(float64(i)/float64(total)*80)) + 10
		if err := s.repo.UpdateProgress(ctx, record.ID, StatusRunning, progress); err != nil {
			return nil, err
		}
	}

	return Result{
		"imported": imported,
		"message":  fmt.Sprintf("%d Abonnements importiert", imported),
	}, nil
}

func (s *Service) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
