package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skyview-tv/skyview/internal/models"
)

// completeSeriesFilter mirrors the fetch predicate: series must be named,
// carry a cover, and own at least one season.
const completeSeriesFilter = "name <> '' AND cover IS NOT NULL AND cover <> '' AND " +
	"id IN (SELECT series_ref FROM seasons)"

// SeriesRepository handles database operations for series
type SeriesRepository struct {
	db *DB
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(db *DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// withSeasons preloads seasons and episodes in their on-screen order
func withSeasons(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Seasons", func(db *gorm.DB) *gorm.DB {
			return db.Order("season_number ASC")
		}).
		Preload("Seasons.Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episode_num ASC")
		})
}

// Create inserts a new series along with its seasons and episodes
func (r *SeriesRepository) Create(ctx context.Context, series *models.Series) error {
	result := r.db.WithContext(ctx).Create(series)
	if result.Error != nil {
		return fmt.Errorf("failed to create series: %w", MapGormError(result.Error))
	}
	return nil
}

// UpsertBySeriesID replaces the stored series (and its season tree) for the
// given upstream series id. Seasons are replaced wholesale because the
// upstream feed is the source of truth for episode ordering.
func (r *SeriesRepository) UpsertBySeriesID(ctx context.Context, series *models.Series) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing models.Series
		err := tx.Where("series_id = ?", series.SeriesID).First(&existing).Error
		if err != nil {
			if IsNotFound(MapGormError(err)) {
				return MapGormError(tx.Create(series).Error)
			}
			return MapGormError(err)
		}

		series.ID = existing.ID
		for i := range series.Seasons {
			series.Seasons[i].SeriesRef = existing.ID
		}
		if err := tx.Where("series_ref = ?", existing.ID.String()).Delete(&models.Season{}).Error; err != nil {
			return MapGormError(err)
		}
		return MapGormError(tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(series).Error)
	})
}

// GetByID retrieves a series by its UUID, including seasons and episodes
func (r *SeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Series, error) {
	var series models.Series
	result := withSeasons(r.db.WithContext(ctx)).Where("id = ?", id.String()).First(&series)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &series, nil
}

// ListComplete retrieves complete series up to limit
func (r *SeriesRepository) ListComplete(ctx context.Context, limit int) ([]*models.Series, error) {
	var series []*models.Series
	result := withSeasons(r.db.WithContext(ctx)).
		Where(completeSeriesFilter).
		Limit(limit).
		Find(&series)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list series: %w", MapGormError(result.Error))
	}
	return series, nil
}

// GetCompleteByID retrieves a series by UUID, applying the complete predicate
func (r *SeriesRepository) GetCompleteByID(ctx context.Context, id uuid.UUID) (*models.Series, error) {
	var series models.Series
	result := withSeasons(r.db.WithContext(ctx)).
		Where("id = ?", id.String()).
		Where(completeSeriesFilter).
		First(&series)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &series, nil
}

// RandomComplete retrieves up to n complete series in random order
func (r *SeriesRepository) RandomComplete(ctx context.Context, n int) ([]*models.Series, error) {
	var series []*models.Series
	result := withSeasons(r.db.WithContext(ctx)).
		Where(completeSeriesFilter).
		Order("RANDOM()").
		Limit(n).
		Find(&series)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to sample series: %w", MapGormError(result.Error))
	}
	return series, nil
}

// SearchByName retrieves series whose name contains q (case-insensitive),
// ordered by name so the limit cuts the same way the merged result sorts
func (r *SeriesRepository) SearchByName(ctx context.Context, q string, limit int) ([]*models.Series, error) {
	var series []*models.Series
	result := r.db.WithContext(ctx).
		Where("name LIKE ? COLLATE NOCASE", "%"+q+"%").
		Order("name COLLATE NOCASE").
		Limit(limit).
		Find(&series)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search series: %w", MapGormError(result.Error))
	}
	return series, nil
}

// Browse retrieves series matching the optional name substring and genre filters
func (r *SeriesRepository) Browse(ctx context.Context, name, genre string) ([]*models.Series, error) {
	query := r.db.WithContext(ctx).Model(&models.Series{})
	if name != "" {
		query = query.Where("name LIKE ? COLLATE NOCASE", "%"+name+"%")
	}
	if genre != "" {
		query = query.Where("genre LIKE ? COLLATE NOCASE", "%"+genre+"%")
	}

	var series []*models.Series
	if err := query.Find(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to browse series: %w", MapGormError(err))
	}
	return series, nil
}

// List retrieves all series (without their season trees)
func (r *SeriesRepository) List(ctx context.Context) ([]*models.Series, error) {
	var series []*models.Series
	result := r.db.WithContext(ctx).Find(&series)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list series: %w", MapGormError(result.Error))
	}
	return series, nil
}

// Delete deletes a series by its UUID (cascade delete to seasons and episodes)
func (r *SeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Series{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete series: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
