package category

import (
	"context"
	"errors"

	categorydomain "subtrack-go/internal/domain/category"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) List(ctx context.Context) ([]categorydomain.Category, error) {
	var categories []categorydomain.Category
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*categorydomain.Category, error) {
	var category categorydomain.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categorydomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *GormRepository) GetByName(ctx context.Context, name string) (*categorydomain.Category, error) {
	var category categorydomain.Category
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categorydomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormRepository) Create(ctx context.Context, category *categorydomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormRepository) Update(ctx context.Context, category *categorydomain.Category) error {
	return r.db.WithContext(ctx).
		Model(&categorydomain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":  category.Name,
			"icon":  category.Icon,
			"color": category.Color,
		}).Error
}

func (r *GormRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&categorydomain.Category{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
