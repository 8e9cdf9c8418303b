package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/skyview-tv/skyview/internal/models"
)

// playableMovieFilter is the fixed predicate the fetch endpoints apply: the
// movie must carry an icon and a playable URL, and ship in the container
// format the player supports.
const playableMovieFilter = "stream_icon IS NOT NULL AND stream_icon <> '' AND " +
	"stream_url IS NOT NULL AND stream_url <> '' AND container_extension = ?"

// MovieContainerExtension is the only container format exposed to clients
const MovieContainerExtension = "mkv"

// MovieRepository handles database operations for movies
type MovieRepository struct {
	db *DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts a new movie
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	result := r.db.WithContext(ctx).Create(movie)
	if result.Error != nil {
		return fmt.Errorf("failed to create movie: %w", MapGormError(result.Error))
	}
	return nil
}

// UpsertByStreamID inserts the movie or, when a row with the same upstream
// stream id already exists, refreshes its metadata in place. Used by the
// catalog sync job.
func (r *MovieRepository) UpsertByStreamID(ctx context.Context, movie *models.Movie) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stream_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"tmdb_id", "name", "stream_icon", "stream_url", "rating", "trailer",
			"category_id", "category_name", "container_extension", "is_adult",
			"added", "last_updated",
		}),
	}).Create(movie)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert movie: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a movie by its UUID
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&movie)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &movie, nil
}

// ListPlayable retrieves playable movies up to limit
func (r *MovieRepository) ListPlayable(ctx context.Context, limit int) ([]*models.Movie, error) {
	var movies []*models.Movie
	result := r.db.WithContext(ctx).
		Where(playableMovieFilter, MovieContainerExtension).
		Limit(limit).
		Find(&movies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list movies: %w", MapGormError(result.Error))
	}
	return movies, nil
}

// GetPlayableByID retrieves a movie by UUID, applying the playable predicate.
// A movie that exists but is filtered out is reported as not found.
func (r *MovieRepository) GetPlayableByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var movie models.Movie
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Where(playableMovieFilter, MovieContainerExtension).
		First(&movie)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &movie, nil
}

// RandomPlayable retrieves up to n playable movies in random order
func (r *MovieRepository) RandomPlayable(ctx context.Context, n int) ([]*models.Movie, error) {
	var movies []*models.Movie
	result := r.db.WithContext(ctx).
		Where(playableMovieFilter, MovieContainerExtension).
		Order("RANDOM()").
		Limit(n).
		Find(&movies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to sample movies: %w", MapGormError(result.Error))
	}
	return movies, nil
}

// SearchByName retrieves movies whose name contains q (case-insensitive),
// ordered by name so the limit cuts the same way the merged result sorts
func (r *MovieRepository) SearchByName(ctx context.Context, q string, limit int) ([]*models.Movie, error) {
	var movies []*models.Movie
	result := r.db.WithContext(ctx).
		Where("name LIKE ? COLLATE NOCASE", "%"+q+"%").
		Order("name COLLATE NOCASE").
		Limit(limit).
		Find(&movies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search movies: %w", MapGormError(result.Error))
	}
	return movies, nil
}

// Browse retrieves movies matching the optional name substring and category
// name filters, without the playable predicate
func (r *MovieRepository) Browse(ctx context.Context, name, category string) ([]*models.Movie, error) {
	query := r.db.WithContext(ctx).Model(&models.Movie{})
	if name != "" {
		query = query.Where("name LIKE ? COLLATE NOCASE", "%"+name+"%")
	}
	if category != "" {
		query = query.Where("category_name = ?", category)
	}

	var movies []*models.Movie
	if err := query.Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to browse movies: %w", MapGormError(err))
	}
	return movies, nil
}

// List retrieves all movies
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	var movies []*models.Movie
	result := r.db.WithContext(ctx).Find(&movies)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list movies: %w", MapGormError(result.Error))
	}
	return movies, nil
}

// Delete deletes a movie by its UUID
func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
