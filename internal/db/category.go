package db

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// CategoryRepository handles database operations for category reference data
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Upsert inserts the category or refreshes the name of the row with the same
// (kind, category_id) pair
func (r *CategoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category_name", "parent_id", "last_updated"}),
	}).Create(category)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert category: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByKind retrieves all categories for one catalog kind, ordered by name
func (r *CategoryRepository) ListByKind(ctx context.Context, kind models.ContentType) ([]*models.Category, error) {
	var categories []*models.Category
	result := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("category_name ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list categories: %w", MapGormError(result.Error))
	}
	return categories, nil
}

// NameByID resolves a category id to its display name for the given kind
func (r *CategoryRepository) NameByID(ctx context.Context, kind models.ContentType, categoryID string) (string, error) {
	var category models.Category
	result := r.db.WithContext(ctx).
		Where("kind = ? AND category_id = ?", kind, categoryID).
		First(&category)
	if result.Error != nil {
		return "", MapGormError(result.Error)
	}
	return category.CategoryName, nil
}
