package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/models"
)

// SearchHistoryRepository handles database operations for the search log
type SearchHistoryRepository struct {
	db *DB
}

// NewSearchHistoryRepository creates a new search history repository
func NewSearchHistoryRepository(db *DB) *SearchHistoryRepository {
	return &SearchHistoryRepository{db: db}
}

// Create appends a search log entry. The log is append-only; repeated
// identical queries are not deduplicated.
func (r *SearchHistoryRepository) Create(ctx context.Context, entry *models.SearchHistory) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to create search history: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves one entry by UUID
func (r *SearchHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SearchHistory, error) {
	var entry models.SearchHistory
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// ListByUser retrieves all entries for a user, newest first
func (r *SearchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.SearchHistory, error) {
	var entries []*models.SearchHistory
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list search history: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// Delete removes one entry by UUID
func (r *SearchHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.SearchHistory{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete search history: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearByUser removes every entry for a user
func (r *SearchHistoryRepository) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Delete(&models.SearchHistory{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear search history: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}
