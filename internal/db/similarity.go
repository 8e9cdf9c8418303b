package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/models"
)

// SimilarityRepository handles database operations for similarity edges
type SimilarityRepository struct {
	db *DB
}

// NewSimilarityRepository creates a new similarity repository
func NewSimilarityRepository(db *DB) *SimilarityRepository {
	return &SimilarityRepository{db: db}
}

// Create inserts a new similarity edge
func (r *SimilarityRepository) Create(ctx context.Context, sim *models.ContentSimilarity) error {
	result := r.db.WithContext(ctx).Create(sim)
	if result.Error != nil {
		return fmt.Errorf("failed to create similarity: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByContent retrieves all similarity edges for a content item, highest
// score first
func (r *SimilarityRepository) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*models.ContentSimilarity, error) {
	var sims []*models.ContentSimilarity
	result := r.db.WithContext(ctx).
		Where("content_id = ?", contentID.String()).
		Order("similarity_score DESC").
		Find(&sims)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list similarities: %w", MapGormError(result.Error))
	}
	return sims, nil
}
