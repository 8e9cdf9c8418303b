package models

import "github.com/google/uuid"

// ContentSimilarity is a precomputed similarity edge between two catalog
// items, produced by an offline job. SimilarContentType records which
// collection the target lives in so lookups never have to guess.
type ContentSimilarity struct {
	ID                 uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	ContentID          uuid.UUID   `json:"content_id" gorm:"type:text;not null;index;column:content_id"`
	SimilarContentID   uuid.UUID   `json:"similar_content_id" gorm:"type:text;not null;column:similar_content_id"`
	SimilarContentType ContentType `json:"similar_content_type" gorm:"type:text;not null;column:similar_content_type"`
	SimilarityScore    float64     `json:"similarity_score" gorm:"type:real;not null;default:0;column:similarity_score"`
}
