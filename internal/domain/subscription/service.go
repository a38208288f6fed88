package subscription

import (
	"context"
	"fmt"
	"strings"

	"subtrack-go/internal/domain/user"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all subscriptions for admins and only the actor's own rows
// for everyone else. Shared subscriptions are fetched individually by id.
func (s *Service) List(ctx context.Context, actor Actor) ([]Subscription, error) {
	if actor.Role == user.RoleAdmin {
		return s.repo.List(ctx)
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}

func (s *Service) Get(ctx context.Context, id string, actor Actor) (*Subscription, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.CanRead(actor) {
		return nil, ErrAccessDenied
	}
	return record, nil
}

func (s *Service) Create(ctx context.Context, input CreateSubscriptionInput) (*Subscription, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	cycle, err := ParseBillingCycle(input.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.NextBillingDate.IsZero() {
		return nil, fmt.Errorf("%w: next billing date is required", ErrInvalidInput)
	}

	exists, err := s.repo.UserExists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserMissing
	}
	exists, err = s.repo.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryMissing
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	record := Subscription{
		ID:                   uuid.NewString(),
		Name:                 name,
		Price:                input.Price,
		BillingCycle:         cycle,
		NextBillingDate:      input.NextBillingDate,
		CancellationDeadline: input.CancellationDeadline,
		IsActive:             isActive,
		Notes:                input.Notes,
		Color:                valueOrDefault(input.Color, defaultColor),
		UserID:               input.UserID,
		CategoryID:           input.CategoryID,
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateSubscriptionInput, actor Actor) (*Subscription, error) {
	record, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !record.CanModify(actor) {
		return nil, ErrNotOwner
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		record.Name = name
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}
		record.Price = *input.Price
	}
	if input.BillingCycle != nil {
		cycle, err := ParseBillingCycle(*input.BillingCycle)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		record.BillingCycle = cycle
	}
	if input.NextBillingDate != nil {
		record.NextBillingDate = *input.NextBillingDate
	}
	if input.CancellationDeadline != nil {
		record.CancellationDeadline = input.CancellationDeadline
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
	}
	if input.Notes != nil {
		record.Notes = input.Notes
	}
	if input.Color != nil {
		record.Color = valueOrDefault(*input.Color, defaultColor)
	}
	if input.CategoryID != nil {
		exists, err := s.repo.CategoryExists(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrCategoryMissing
		}
		record.CategoryID = *input.CategoryID
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string, actor Actor) error {
	record, err := s.Get(ctx, id, actor)
	if err != nil {
		return err
	}
	if !record.CanModify(actor) {
		return ErrNotOwner
	}

	deleted, err := s.repo.Delete(ctx, record.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Share grants the target users read access. Only premium users and admins
// may share, and only the owner (or an admin) may share a subscription.
func (s *Service) Share(ctx context.Context, id string, targetUserIDs []string, actor Actor) (*Subscription, error) {
	if actor.Role != user.RolePremium && actor.Role != user.RoleAdmin {
		return nil, ErrSharingNotAllowed
	}

	record, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if record.UserID != actor.UserID && actor.Role != user.RoleAdmin {
		return nil, ErrNotOwner
	}

	record.SharedWith = mergeUnique(record.SharedWith, targetUserIDs)

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// mergeUnique keeps the existing order and appends unseen ids.
func mergeUnique(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range incoming {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

func valueOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
