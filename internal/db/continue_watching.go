package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// ContinueWatchingRepository handles database operations for continue-watching
type ContinueWatchingRepository struct {
	db *DB
}

// NewContinueWatchingRepository creates a new continue-watching repository
func NewContinueWatchingRepository(db *DB) *ContinueWatchingRepository {
	return &ContinueWatchingRepository{db: db}
}

// Upsert inserts the record or replaces progress, duration, and last-watched
// for the existing (user, content) pair in a single atomic write
func (r *ContinueWatchingRepository) Upsert(ctx context.Context, record *models.ContinueWatching) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "progress", "duration", "last_watched"}),
	}).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert continue watching: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByUserContent retrieves the record for the (user, content) pair
func (r *ContinueWatchingRepository) GetByUserContent(ctx context.Context, userID, contentID uuid.UUID) (*models.ContinueWatching, error) {
	var record models.ContinueWatching
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		First(&record)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &record, nil
}

// ListByUser retrieves all records for a user sorted by last-watched descending
func (r *ContinueWatchingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.ContinueWatching, error) {
	var records []*models.ContinueWatching
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("last_watched DESC").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list continue watching: %w", MapGormError(result.Error))
	}
	return records, nil
}

// DeleteByUserContent removes the record for the (user, content) pair
func (r *ContinueWatchingRepository) DeleteByUserContent(ctx context.Context, userID, contentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		Delete(&models.ContinueWatching{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete continue watching: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
