package models

import (
	"time"

	"github.com/google/uuid"
)

// Category maps an upstream category id to a display name for one catalog kind.
// Reference data only, populated by the catalog sync job.
type Category struct {
	ID           uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	CategoryID   string      `json:"category_id" gorm:"type:text;not null;uniqueIndex:idx_categories_kind_cat;column:category_id"`
	CategoryName string      `json:"category_name" gorm:"type:text;not null;column:category_name"`
	Kind         ContentType `json:"kind" gorm:"type:text;not null;uniqueIndex:idx_categories_kind_cat;column:kind"`
	ParentID     int         `json:"parent_id" gorm:"type:integer;not null;default:0;column:parent_id"`
	LastUpdated  time.Time   `json:"last_updated" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:last_updated"`
}

// NewCategory creates a new Category with generated UUID and timestamp
func NewCategory(kind ContentType, categoryID, categoryName string) *Category {
	return &Category{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Kind:         kind,
		LastUpdated:  time.Now().UTC(),
	}
}
