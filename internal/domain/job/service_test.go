package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"subtrack-go/internal/domain/category"
	"subtrack-go/pkg/logger"
)

type progressStep struct {
	status   Status
	progress int
}

// fakeJobRepo is mutex-guarded because the worker test polls it from a
// second goroutine.
type fakeJobRepo struct {
	mu            sync.Mutex
	jobs          map[string]*Job
	history       map[string][]progressStep
	exportRows    []ExportRow
	dueReminders  []DueReminder
	importedSubs  []ImportEntry
	failExport    error
	failImportAt  int
	importedCount int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:         make(map[string]*Job),
		history:      make(map[string][]progressStep),
		failImportAt: -1,
	}
}

func (r *fakeJobRepo) CreateJob(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) GetJob(ctx context.Context, id string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepo) ListJobsByUser(ctx context.Context, userID string) ([]Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Job, 0)
	for _, job := range r.jobs {
		if job.UserID == userID {
			result = append(result, *job)
		}
	}
	return result, nil
}

func (r *fakeJobRepo) UpdateProgress(ctx context.Context, id string, status Status, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = status
	job.Progress = progress
	r.history[id] = append(r.history[id], progressStep{status: status, progress: progress})
	return nil
}

func (r *fakeJobRepo) MarkCompleted(ctx context.Context, id string, result Result, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = StatusCompleted
	job.Progress = 100
	job.Result = result
	job.CompletedAt = &completedAt
	r.history[id] = append(r.history[id], progressStep{status: StatusCompleted, progress: 100})
	return nil
}

func (r *fakeJobRepo) MarkFailed(ctx context.Context, id string, message string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = StatusFailed
	job.Error = &message
	job.CompletedAt = &completedAt
	return nil
}

func (r *fakeJobRepo) ListSubscriptionsForExport(ctx context.Context, userID string) ([]ExportRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failExport != nil {
		return nil, r.failExport
	}
	return r.exportRows, nil
}

func (r *fakeJobRepo) ListDueReminders(ctx context.Context, date time.Time) ([]DueReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dueReminders, nil
}

func (r *fakeJobRepo) CreateImportedSubscription(ctx context.Context, userID, categoryID string, entry ImportEntry, nextBillingDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failImportAt >= 0 && r.importedCount == r.failImportAt {
		return fmt.Errorf("insert failed")
	}
	r.importedCount++
	r.importedSubs = append(r.importedSubs, entry)
	return nil
}

type fakeCategoryResolver struct {
	mu         sync.Mutex
	categories map[string]string
}

func newFakeCategoryResolver() *fakeCategoryResolver {
	return &fakeCategoryResolver{categories: make(map[string]string)}
}

func (f *fakeCategoryResolver) GetOrCreateByName(ctx context.Context, name string) (*category.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.categories[name]
	if !ok {
		id = fmt.Sprintf("cat-%d", len(f.categories)+1)
		f.categories[name] = id
	}
	return &category.Category{ID: id, Name: name}, nil
}

func newTestService(repo Repository) *Service {
	return newTestServiceWithCategories(repo, newFakeCategoryResolver())
}

func newTestServiceWithCategories(repo Repository, categories *fakeCategoryResolver) *Service {
	log := logger.New(io.Discard, slog.LevelError, "text")
	return NewService(repo, categories, log, Config{})
}

func TestExportJobLifecycle(t *testing.T) {
	repo := newFakeJobRepo()
	repo.exportRows = []ExportRow{
		{ID: "s1", Name: "Netflix", Price: 12.99, BillingCycle: "monthly", CategoryName: "Streaming", NextBillingDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), IsActive: true},
		{ID: "s2", Name: "Spotify", Price: 9.99, BillingCycle: "monthly", CategoryName: "Musik", NextBillingDate: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), IsActive: true},
		{ID: "s3", Name: "Altes Abo", Price: 3, BillingCycle: "yearly", CategoryName: "", NextBillingDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), IsActive: false},
	}
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), TypeExportSubscriptions, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != StatusPending || created.Progress != 0 {
		t.Fatalf("expected pending/0, got %s/%d", created.Status, created.Progress)
	}

	svc.execute(context.Background(), task{jobID: created.ID})

	final, err := svc.Status(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if final.Status != StatusCompleted || final.Progress != 100 {
		t.Fatalf("expected completed/100, got %s/%d", final.Status, final.Progress)
	}
	if final.CompletedAt == nil {
		t.Fatal("expected completedAt to be set")
	}
	if final.Result["totalSubscriptions"] != 3 {
		t.Fatalf("expected 3 exported subscriptions, got %v", final.Result["totalSubscriptions"])
	}
	data, ok := final.Result["data"].([]map[string]any)
	if !ok || len(data) != 3 {
		t.Fatalf("expected 3 data rows, got %v", final.Result["data"])
	}
	if data[2]["category"] != "Unbekannt" {
		t.Fatalf("expected fallback category label, got %v", data[2]["category"])
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), TypeExportSubscriptions, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	svc.execute(context.Background(), task{jobID: created.ID})

	steps := repo.history[created.ID]
	if len(steps) == 0 {
		t.Fatal("expected progress updates")
	}
	last := -1
	for _, step := range steps {
		if step.progress < last {
			t.Fatalf("progress went backwards: %v", steps)
		}
		last = step.progress
	}
	if steps[0].status != StatusRunning {
		t.Fatalf("expected first transition to running, got %s", steps[0].status)
	}
	if steps[len(steps)-1].status != StatusCompleted {
		t.Fatalf("expected final status completed, got %s", steps[len(steps)-1].status)
	}
}

func TestFailedJobKeepsProgress(t *testing.T) {
	repo := newFakeJobRepo()
	repo.failExport = fmt.Errorf("store unavailable")
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), TypeExportSubscriptions, "user-1")
	svc.execute(context.Background(), task{jobID: created.ID})

	final, _ := svc.Status(context.Background(), created.ID)
	if final.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", final.Status)
	}
	if final.Error == nil || *final.Error != "store unavailable" {
		t.Fatalf("expected stored error message, got %v", final.Error)
	}
	// Failure does not reset the progress already written.
	if final.Progress != 30 {
		t.Fatalf("expected progress to stay at 30, got %d", final.Progress)
	}
	if final.CompletedAt == nil {
		t.Fatal("expected completedAt on failure")
	}
}

func TestReminderCheckComposesNotifications(t *testing.T) {
	repo := newFakeJobRepo()
	repo.dueReminders = []DueReminder{
		{ID: "r1", SubscriptionName: "Netflix", Title: "Kündigung prüfen", Description: "läuft aus", Type: "cancellation", DueDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)},
		{ID: "r2", SubscriptionName: "", Title: "Eigene Erinnerung", Description: "", Type: "custom", DueDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)},
	}
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), TypeCheckReminders, "system")
	svc.execute(context.Background(), task{jobID: created.ID})

	final, _ := svc.Status(context.Background(), created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", final.Status)
	}
	if final.Result["dueRemindersCount"] != 2 {
		t.Fatalf("expected 2 due reminders, got %v", final.Result["dueRemindersCount"])
	}
	notifications := final.Result["notifications"].([]map[string]any)
	if notifications[0]["message"] != "Kündigung prüfen - läuft aus" {
		t.Fatalf("unexpected message: %v", notifications[0]["message"])
	}
	if notifications[1]["subscriptionName"] != "Unbekannt" {
		t.Fatalf("expected fallback subscription name, got %v", notifications[1]["subscriptionName"])
	}
}

func TestImportCreatesSubscriptionsAndCategories(t *testing.T) {
	repo := newFakeJobRepo()
	resolver := newFakeCategoryResolver()
	svc := newTestServiceWithCategories(repo, resolver)

	entries := []ImportEntry{
		{Name: "Disney+", Price: 8.99, BillingCycle: "monthly", CategoryName: "Streaming"},
		{Name: "FAZ", Price: 60, BillingCycle: "quarterly", CategoryName: "Streaming"},
	}
	created, err := svc.CreateImport(context.Background(), "user-1", entries)
	if err != nil {
		t.Fatalf("create import failed: %v", err)
	}
	svc.execute(context.Background(), task{jobID: created.ID, entries: entries})

	final, _ := svc.Status(context.Background(), created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", final.Status)
	}
	if final.Result["imported"] != 2 {
		t.Fatalf("expected 2 imported, got %v", final.Result["imported"])
	}
	if final.Result["message"] != "2 Abonnements importiert" {
		t.Fatalf("unexpected message: %v", final.Result["message"])
	}
	if len(repo.importedSubs) != 2 {
		t.Fatalf("expected 2 subscriptions created, got %d", len(repo.importedSubs))
	}
	// Both entries share one category; find-or-create must not duplicate it.
	if len(resolver.categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(resolver.categories))
	}
}

func TestImportProgressCheckpoints(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo)

	entries := []ImportEntry{
		{Name: "A", Price: 1, BillingCycle: "monthly", CategoryName: "X"},
		{Name: "B", Price: 2, BillingCycle: "monthly", CategoryName: "X"},
		{Name: "C", Price: 3, BillingCycle: "monthly", CategoryName: "X"},
		{Name: "D", Price: 4, BillingCycle: "monthly", CategoryName: "X"},
	}
	created, _ := svc.CreateImport(context.Background(), "user-1", entries)
	svc.execute(context.Background(), task{jobID: created.ID, entries: entries})

	// round(i/total*80)+10 for i = 0..3, then the completion step.
	want := []int{10, 10, 30, 50, 70, 100}
	steps := repo.history[created.ID]
	if len(steps) != len(want) {
		t.Fatalf("expected %d progress steps, got %d (%v)", len(want), len(steps), steps)
	}
	for i, p := range want {
		if steps[i].progress != p {
			t.Fatalf("step %d: expected progress %d, got %d", i, p, steps[i].progress)
		}
	}
}

func TestUnknownJobTypeCompletesWithPlaceholder(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), Type("rebuild_index"), "user-1")
	svc.execute(context.Background(), task{jobID: created.ID})

	final, _ := svc.Status(context.Background(), created.ID)
	if final.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", final.Status)
	}
	if final.Result["message"] != "Unknown job type" {
		t.Fatalf("expected placeholder result, got %v", final.Result)
	}
}

func TestWorkerProcessesQueuedJob(t *testing.T) {
	repo := newFakeJobRepo()
	svc := newTestService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	created, err := svc.Create(context.Background(), TypeExportSubscriptions, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		final, err := svc.Status(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if final.Status == StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %s", final.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
