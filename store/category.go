package store

import (
	"context"
	"fmt"

	"quizhub-backend/models"

	"gorm.io/gorm"
)

// CategoryStore persists and lists quiz categories.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// Create inserts a category and returns it with its assigned id.
// Duplicate names are allowed; the table has no uniqueness on name.
func (s *CategoryStore) Create(ctx context.Context, name string) (models.Category, error) {
	category := models.Category{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return models.Category{}, fmt.Errorf("insert category %q: %w", name, err)
	}
	return category, nil
}

// List returns all categories ordered by id.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
