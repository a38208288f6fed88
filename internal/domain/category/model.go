package category

import "time"

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Icon      string    `gorm:"not null;default:folder"`
	Color     string    `gorm:"not null;default:#6366f1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type CreateCategoryInput struct {
	Name  string
	Icon  string
	Color string
}

type UpdateCategoryInput struct {
	Name  *string
	Icon  *string
	Color *string
}
