package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// playableChannelFilter keeps channels that have a name, an icon, and a URL
const playableChannelFilter = "name <> '' AND " +
	"stream_icon IS NOT NULL AND stream_icon <> '' AND " +
	"stream_url IS NOT NULL AND stream_url <> ''"

// ChannelRepository handles database operations for live channels
type ChannelRepository struct {
	db *DB
}

// NewChannelRepository creates a new live channel repository
func NewChannelRepository(db *DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// Create inserts a new live channel
func (r *ChannelRepository) Create(ctx context.Context, channel *models.LiveChannel) error {
	result := r.db.WithContext(ctx).Create(channel)
	if result.Error != nil {
		return fmt.Errorf("failed to create channel: %w", MapGormError(result.Error))
	}
	return nil
}

// UpsertByStreamID inserts the channel or refreshes the row with the same
// upstream stream id. Used by the catalog sync job.
func (r *ChannelRepository) UpsertByStreamID(ctx context.Context, channel *models.LiveChannel) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stream_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "stream_type", "stream_icon", "stream_url", "epg_channel_id",
			"category_id", "category_name", "is_adult", "tv_archive",
			"tv_archive_duration", "added", "last_updated",
		}),
	}).Create(channel)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert channel: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a live channel by its UUID
func (r *ChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LiveChannel, error) {
	var channel models.LiveChannel
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&channel)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &channel, nil
}

// ListPlayable retrieves playable channels up to limit
func (r *ChannelRepository) ListPlayable(ctx context.Context, limit int) ([]*models.LiveChannel, error) {
	var channels []*models.LiveChannel
	result := r.db.WithContext(ctx).
		Where(playableChannelFilter).
		Limit(limit).
		Find(&channels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list channels: %w", MapGormError(result.Error))
	}
	return channels, nil
}

// GetPlayableByID retrieves a channel by UUID, applying the playable predicate
func (r *ChannelRepository) GetPlayableByID(ctx context.Context, id uuid.UUID) (*models.LiveChannel, error) {
	var channel models.LiveChannel
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Where(playableChannelFilter).
		First(&channel)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &channel, nil
}

// SearchByName retrieves channels whose name contains q (case-insensitive),
// ordered by name so the limit cuts the same way the merged result sorts
func (r *ChannelRepository) SearchByName(ctx context.Context, q string, limit int) ([]*models.LiveChannel, error) {
	var channels []*models.LiveChannel
	result := r.db.WithContext(ctx).
		Where("name LIKE ? COLLATE NOCASE", "%"+q+"%").
		Order("name COLLATE NOCASE").
		Limit(limit).
		Find(&channels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search channels: %w", MapGormError(result.Error))
	}
	return channels, nil
}

// Browse retrieves channels matching the optional name substring and category
// name filters
func (r *ChannelRepository) Browse(ctx context.Context, name, category string) ([]*models.LiveChannel, error) {
	query := r.db.WithContext(ctx).Model(&models.LiveChannel{})
	if name != "" {
		query = query.Where("name LIKE ? COLLATE NOCASE", "%"+name+"%")
	}
	if category != "" {
		query = query.Where("category_name = ?", category)
	}

	var channels []*models.LiveChannel
	if err := query.Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("failed to browse channels: %w", MapGormError(err))
	}
	return channels, nil
}

// List retrieves all channels
func (r *ChannelRepository) List(ctx context.Context) ([]*models.LiveChannel, error) {
	var channels []*models.LiveChannel
	result := r.db.WithContext(ctx).Find(&channels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list channels: %w", MapGormError(result.Error))
	}
	return channels, nil
}

// Delete deletes a live channel by its UUID
func (r *ChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.LiveChannel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete channel: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
