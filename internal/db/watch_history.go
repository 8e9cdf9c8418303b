package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// WatchHistoryRepository handles database operations for watch history
type WatchHistoryRepository struct {
	db *DB
}

// NewWatchHistoryRepository creates a new watch history repository
func NewWatchHistoryRepository(db *DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Upsert inserts the record or, when the (user, content) pair already exists,
// replaces progress and watched-at in place. The unique index plus the
// conflict clause make this a single atomic write, so history shows the
// latest watch, never one row per watch.
func (r *WatchHistoryRepository) Upsert(ctx context.Context, record *models.WatchHistory) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "progress", "watched_at"}),
	}).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert watch history: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByUserContent retrieves the record for the (user, content) pair
func (r *WatchHistoryRepository) GetByUserContent(ctx context.Context, userID, contentID uuid.UUID) (*models.WatchHistory, error) {
	var record models.WatchHistory
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		First(&record)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &record, nil
}

// ListByUser retrieves all records for a user sorted by watched-at descending
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.WatchHistory, error) {
	var records []*models.WatchHistory
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("watched_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", MapGormError(result.Error))
	}
	return records, nil
}

// Delete removes one record owned by the user
func (r *WatchHistoryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID.String(), id.String()).
		Delete(&models.WatchHistory{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete watch history: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearByUser removes every record for a user and reports how many were deleted
func (r *WatchHistoryRepository) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Delete(&models.WatchHistory{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear watch history: %w", MapGormError(result.Error))
	}
	return result.RowsAffected, nil
}
