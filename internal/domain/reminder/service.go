package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Reminder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBySubscription(ctx context.Context, subscriptionID string) ([]Reminder, error) {
	return s.repo.ListBySubscription(ctx, subscriptionID)
}

func (s *Service) Due(ctx context.Context, date time.Time) ([]Reminder, error) {
	return s.repo.ListDue(ctx, date)
}

func (s *Service) Create(ctx context.Context, input CreateReminderInput) (*Reminder, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.ReminderDate.IsZero() {
		return nil, fmt.Errorf("%w: reminder date is required", ErrInvalidInput)
	}
	reminderType, err := ParseType(input.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	record := Reminder{
		ID:             uuid.NewString(),
		SubscriptionID: input.SubscriptionID,
		ReminderDate:   input.ReminderDate,
		Type:           reminderType,
		IsActive:       isActive,
		Title:          title,
		Description:    input.Description,
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateReminderInput) (*Reminder, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SubscriptionID != nil {
		record.SubscriptionID = input.SubscriptionID
	}
	if input.ReminderDate != nil {
		record.ReminderDate = *input.ReminderDate
	}
	if input.Type != nil {
		reminderType, err := ParseType(*input.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		record.Type = reminderType
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		record.Title = title
	}
	if input.Description != nil {
		record.Description = input.Description
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReminderNotFound
	}
	return nil
}

// CancelBySubscription deactivates every active reminder of a subscription
// in one bulk update. Idempotent: a second call affects zero rows.
func (s *Service) CancelBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	return s.repo.DeactivateBySubscription(ctx, subscriptionID)
}
