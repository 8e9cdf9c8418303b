package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie represents a VOD movie entry in the catalog
type Movie struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	StreamID           int        `json:"stream_id" gorm:"type:integer;not null;uniqueIndex;column:stream_id"`
	TmdbID             *string    `json:"tmdb_id,omitempty" gorm:"type:text;column:tmdb_id"`
	Name               string     `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	StreamIcon         *string    `json:"stream_icon,omitempty" gorm:"type:text;column:stream_icon"`
	StreamURL          *string    `json:"stream_url,omitempty" gorm:"type:text;column:stream_url"`
	Rating             *float64   `json:"rating,omitempty" gorm:"type:real;column:rating"`
	Trailer            *string    `json:"trailer,omitempty" gorm:"type:text;column:trailer"`
	CategoryID         *string    `json:"category_id,omitempty" gorm:"type:text;column:category_id"`
	CategoryName       *string    `json:"category_name,omitempty" gorm:"type:text;column:category_name"`
	ContainerExtension *string    `json:"container_extension,omitempty" gorm:"type:text;column:container_extension"`
	IsAdult            bool       `json:"is_adult" gorm:"type:integer;not null;default:0;column:is_adult"`
	Added              *time.Time `json:"added,omitempty" gorm:"type:datetime;column:added"`
	LastUpdated        time.Time  `json:"last_updated" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:last_updated"`
}

// NewMovie creates a new Movie with generated UUID and timestamp
func NewMovie(streamID int, name string) *Movie {
	return &Movie{
		ID:          uuid.New(),
		StreamID:    streamID,
		Name:        name,
		LastUpdated: time.Now().UTC(),
	}
}

// Playable reports whether the movie carries both an icon and a stream URL.
// The fetch endpoints only ever expose playable entries.
func (m *Movie) Playable() bool {
	return m.StreamIcon != nil && *m.StreamIcon != "" &&
		m.StreamURL != nil && *m.StreamURL != ""
}
