package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	householdSize := MinHouseholdSize
	if input.HouseholdSize != nil {
		if err := validateHouseholdSize(*input.HouseholdSize); err != nil {
			return nil, err
		}
		householdSize = *input.HouseholdSize
	}

	role := input.Role
	if role == "" {
		role = RoleUser
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	record := User{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          name,
		Role:          role,
		HouseholdSize: householdSize,
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
		}
		if email != record.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
		}
		record.Email = email
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		record.Name = name
	}
	if input.Role != nil {
		record.Role = *input.Role
	}
	if input.HouseholdSize != nil {
		if err := validateHouseholdSize(*input.HouseholdSize); err != nil {
			return nil, err
		}
		record.HouseholdSize = *input.HouseholdSize
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
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	return nil
}

func validateHouseholdSize(size int) error {
	if size < MinHouseholdSize || size > MaxHouseholdSize {
		return fmt.Errorf("%w: household size must be between %d and %d", ErrInvalidInput, MinHouseholdSize, MaxHouseholdSize)
	}
	return nil
}
