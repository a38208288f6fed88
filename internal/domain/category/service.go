package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIcon  = "folder"
	defaultColor = "#6366f1"
)

// defaultCategories is the seed set inserted by Seed when the table is empty.
var defaultCategories = []CreateCategoryInput{
	{Name: "Streaming", Icon: "play-circle", Color: "#8b5cf6"},
	{Name: "Software", Icon: "code", Color: "#3b82f6"},
	{Name: "Fitness", Icon: "dumbbell", Color: "#10b981"},
	{Name: "Cloud", Icon: "cloud", Color: "#06b6d4"},
	{Name: "Gaming", Icon: "gamepad-2", Color: "#f59e0b"},
	{Name: "News", Icon: "newspaper", Color: "#64748b"},
	{Name: "Musik", Icon: "music", Color: "#ec4899"},
	{Name: "Sonstiges", Icon: "box", Color: "#6b7280"},
}

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cache: noopCache{}}
}

func NewServiceWithCache(repo Repository, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: ttl}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	if cached, ok := s.cache.GetAll(); ok {
		return cached, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetAll(categories, s.cacheTTL)
	return categories, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	record := Category{
		ID:    uuid.NewString(),
		Name:  name,
		Icon:  valueOrDefault(input.Icon, defaultIcon),
		Color: valueOrDefault(input.Color, defaultColor),
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return &record, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateCategoryInput) (*Category, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		if name != record.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
		}
		record.Name = name
	}
	if input.Icon != nil {
		record.Icon = valueOrDefault(*input.Icon, defaultIcon)
	}
	if input.Color != nil {
		record.Color = valueOrDefault(*input.Color, defaultColor)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	s.cache.Invalidate()
	return nil
}

// Seed inserts the default categories, but only when the table is empty.
// Returns the number of categories created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, input := range defaultCategories {
		record := Category{
			ID:    uuid.NewString(),
			Name:  input.Name,
			Icon:  input.Icon,
			Color: input.Color,
		}
		if err := s.repo.Create(ctx, &record); err != nil {
			return created, err
		}
		created++
	}

	s.cache.Invalidate()
	return created, nil
}

// GetOrCreateByName is used by the import job: unknown category names are
// created on the fly with default icon and color.
func (s *Service) GetOrCreateByName(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	record := Category{
		ID:    uuid.NewString(),
		Name:  name,
		Icon:  defaultIcon,
		Color: defaultColor,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	return &record, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return err
	}
	if existing != nil {
		return ErrCategoryNameTaken
	}
	return nil
}

func valueOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
