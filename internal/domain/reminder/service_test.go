package reminder

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeReminderRepo struct {
	reminders map[string]*Reminder
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: make(map[string]*Reminder)}
}

func (r *fakeReminderRepo) List(ctx context.Context) ([]Reminder, error) {
	result := make([]Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		result = append(result, *rem)
	}
	return result, nil
}

func (r *fakeReminderRepo) GetByID(ctx context.Context, id string) (*Reminder, error) {
	rem, ok := r.reminders[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	copied := *rem
	return &copied, nil
}

func (r *fakeReminderRepo) ListBySubscription(ctx context.Context, subscriptionID string) ([]Reminder, error) {
	result := make([]Reminder, 0)
	for _, rem := range r.reminders {
		if rem.SubscriptionID != nil && *rem.SubscriptionID == subscriptionID {
			result = append(result, *rem)
		}
	}
	return result, nil
}

func (r *fakeReminderRepo) ListDue(ctx context.Context, date time.Time) ([]Reminder, error) {
	result := make([]Reminder, 0)
	for _, rem := range r.reminders {
		if rem.IsActive && !rem.ReminderDate.After(date) {
			result = append(result, *rem)
		}
	}
	return result, nil
}

func (r *fakeReminderRepo) Create(ctx context.Context, reminder *Reminder) error {
	r.reminders[reminder.ID] = reminder
	return nil
}

func (r *fakeReminderRepo) Update(ctx context.Context, reminder *Reminder) error {
	if _, ok := r.reminders[reminder.ID]; !ok {
		return ErrReminderNotFound
	}
	copied := *reminder
	r.reminders[reminder.ID] = &copied
	return nil
}

func (r *fakeReminderRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.reminders[id]; !ok {
		return false, nil
	}
	delete(r.reminders, id)
	return true, nil
}

func (r *fakeReminderRepo) DeactivateBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	var affected int64
	for _, rem := range r.reminders {
		if rem.SubscriptionID != nil && *rem.SubscriptionID == subscriptionID && rem.IsActive {
			rem.IsActive = false
			affected++
		}
	}
	return affected, nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateReminderDefaultsToRenewal(t *testing.T) {
	svc := NewService(newFakeReminderRepo())

	created, err := svc.Create(context.Background(), CreateReminderInput{
		Title:        "Netflix verlängert sich",
		ReminderDate: date(2026, 9, 10),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Type != TypeRenewal {
		t.Fatalf("expected default type renewal, got %q", created.Type)
	}
	if !created.IsActive {
		t.Fatal("expected reminder to default to active")
	}
	if created.SubscriptionID != nil {
		t.Fatal("expected standalone reminder without subscription")
	}
}

func TestCreateReminderRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeReminderRepo())

	_, err := svc.Create(context.Background(), CreateReminderInput{
		Title:        "x",
		ReminderDate: date(2026, 9, 10),
		Type:         "yearly",
	})
	if err == nil {
		t.Fatal("expected error for unknown reminder type")
	}
}

func TestDueFiltersInactiveAndFuture(t *testing.T) {
	repo := newFakeReminderRepo()
	svc := NewService(repo)

	subID := "sub-1"
	repo.reminders["r1"] = &Reminder{ID: "r1", SubscriptionID: &subID, ReminderDate: date(2026, 8, 29), IsActive: true, Title: "due"}
	repo.reminders["r2"] = &Reminder{ID: "r2", SubscriptionID: &subID, ReminderDate: date(2026, 8, 30), IsActive: true, Title: "due today"}
	repo.reminders["r3"] = &Reminder{ID: "r3", SubscriptionID: &subID, ReminderDate: date(2026, 9, 1), IsActive: true, Title: "future"}
	repo.reminders["r4"] = &Reminder{ID: "r4", SubscriptionID: &subID, ReminderDate: date(2026, 8, 1), IsActive: false, Title: "inactive"}

	due, err := svc.Due(context.Background(), date(2026, 8, 30))
	if err != nil {
		t.Fatalf("due failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due reminders, got %d", len(due))
	}
}

func TestCancelBySubscriptionIsIdempotent(t *testing.T) {
	repo := newFakeReminderRepo()
	svc := NewService(repo)

	subID := "sub-1"
	otherID := "sub-2"
	repo.reminders["r1"] = &Reminder{ID: "r1", SubscriptionID: &subID, ReminderDate: date(2026, 9, 1), IsActive: true, Title: "a"}
	repo.reminders["r2"] = &Reminder{ID: "r2", SubscriptionID: &subID, ReminderDate: date(2026, 9, 2), IsActive: true, Title: "b"}
	repo.reminders["r3"] = &Reminder{ID: "r3", SubscriptionID: &otherID, ReminderDate: date(2026, 9, 3), IsActive: true, Title: "c"}

	count, err := svc.CancelBySubscription(context.Background(), subID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cancelled reminders, got %d", count)
	}

	count, err = svc.CancelBySubscription(context.Background(), subID)
	if err != nil {
		t.Fatalf("second cancel failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected second cancel to affect 0 rows, got %d", count)
	}

	// Reminders of other subscriptions stay untouched.
	if !repo.reminders["r3"].IsActive {
		t.Fatal("expected other subscription's reminder to stay active")
	}
}

func TestUpdateReminderNotFound(t *testing.T) {
	svc := NewService(newFakeReminderRepo())

	title := "x"
	_, err := svc.Update(context.Background(), "missing", UpdateReminderInput{Title: &title})
	if !errors.Is(err, ErrReminderNotFound) {
		t.Fatalf("expected ErrReminderNotFound, got %v", err)
	}
}
