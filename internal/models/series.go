package models

import (
	"time"

	"github.com/google/uuid"
)

// Series represents a series entry in the catalog, owning its seasons
type Series struct {
	ID             uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	SeriesID       int        `json:"series_id" gorm:"type:integer;not null;uniqueIndex;column:series_id"`
	TmdbID         *string    `json:"tmdb_id,omitempty" gorm:"type:text;column:tmdb_id"`
	Name           string     `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	Cover          *string    `json:"cover,omitempty" gorm:"type:text;column:cover"`
	Plot           *string    `json:"plot,omitempty" gorm:"type:text;column:plot"`
	Cast           *string    `json:"cast,omitempty" gorm:"type:text;column:cast"`
	Director       *string    `json:"director,omitempty" gorm:"type:text;column:director"`
	Genre          *string    `json:"genre,omitempty" gorm:"type:text;column:genre"`
	ReleaseDate    *time.Time `json:"release_date,omitempty" gorm:"type:datetime;column:release_date"`
	Rating         *float64   `json:"rating,omitempty" gorm:"type:real;column:rating"`
	Trailer        *string    `json:"trailer,omitempty" gorm:"type:text;column:trailer"`
	EpisodeRunTime *int       `json:"episode_run_time,omitempty" gorm:"type:integer;column:episode_run_time"`
	CategoryID     *string    `json:"category_id,omitempty" gorm:"type:text;column:category_id"`
	CategoryName   *string    `json:"category_name,omitempty" gorm:"type:text;column:category_name"`
	Seasons        []Season   `json:"seasons" gorm:"foreignKey:SeriesRef;references:ID;constraint:OnDelete:CASCADE"`
	LastUpdated    time.Time  `json:"last_updated" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:last_updated"`
}

// Season is an ordered group of episodes belonging to one series
type Season struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	SeriesRef    uuid.UUID `json:"-" gorm:"type:text;not null;index;column:series_ref"`
	SeasonNumber int       `json:"season_number" gorm:"type:integer;not null;column:season_number"`
	Episodes     []Episode `json:"episodes" gorm:"foreignKey:SeasonRef;references:ID;constraint:OnDelete:CASCADE"`
}

// Episode is a single playable entry within a season
type Episode struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	SeasonRef  uuid.UUID `json:"-" gorm:"type:text;not null;index;column:season_ref"`
	EpisodeNum int       `json:"episode_num" gorm:"type:integer;not null;column:episode_num"`
	Title      string    `json:"title" gorm:"type:text;not null;column:title"`
	StreamID   int       `json:"stream_id" gorm:"type:integer;not null;column:stream_id"`
	StreamURL  string    `json:"stream_url" gorm:"type:text;not null;column:stream_url"`
}

// NewSeries creates a new Series with generated UUID and timestamp
func NewSeries(seriesID int, name string) *Series {
	return &Series{
		ID:          uuid.New(),
		SeriesID:    seriesID,
		Name:        name,
		LastUpdated: time.Now().UTC(),
	}
}

// Complete reports whether the series has a name, a cover, and at least one
// season. The fetch endpoints only ever expose complete entries.
func (s *Series) Complete() bool {
	return s.Name != "" && s.Cover != nil && *s.Cover != "" && len(s.Seasons) > 0
}
