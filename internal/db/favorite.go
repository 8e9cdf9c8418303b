package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// FavoriteRepository handles database operations for favorites
type FavoriteRepository struct {
	db *DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// CreateIfAbsent inserts the favorite unless the (user, content) pair already
// exists. The unique index makes this a single conditional write, so two
// concurrent inserts can never produce duplicate rows. Returns true when a
// row was actually inserted.
func (r *FavoriteRepository) CreateIfAbsent(ctx context.Context, favorite *models.Favorite) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoNothing: true,
	}).Create(favorite)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create favorite: %w", MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUserContent removes the favorite for the (user, content) pair.
// Returns true when a row existed and was deleted.
func (r *FavoriteRepository) DeleteByUserContent(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", MapGormError(result.Error))
	}
	return result.RowsAffected > 0, nil
}

// GetByUserContent retrieves the favorite for the (user, content) pair
func (r *FavoriteRepository) GetByUserContent(ctx context.Context, userID, contentID uuid.UUID) (*models.Favorite, error) {
	var favorite models.Favorite
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID.String(), contentID.String()).
		First(&favorite)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &favorite, nil
}

// ListByUser retrieves a user's favorites, newest first, optionally filtered
// by content type
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, contentType models.ContentType) ([]*models.Favorite, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.String())
	if contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}

	var favorites []*models.Favorite
	result := query.Order("added_at DESC").Find(&favorites)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", MapGormError(result.Error))
	}
	return favorites, nil
}
