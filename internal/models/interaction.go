package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a content item as favorited by a user. Name and Image are
// captured at creation time so the entry survives deletion of the underlying
// catalog row. At most one row exists per (user, content) pair, enforced by a
// unique index.
type Favorite struct {
	ID          uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_favorites_user_content;column:user_id"`
	ContentID   uuid.UUID   `json:"content_id" gorm:"type:text;not null;uniqueIndex:idx_favorites_user_content;column:content_id"`
	ContentType ContentType `json:"content_type" gorm:"type:text;not null;column:content_type"`
	Name        string      `json:"name" gorm:"type:text;not null;column:name"`
	Image       string      `json:"image" gorm:"type:text;not null;default:'';column:image"`
	AddedAt     time.Time   `json:"added_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:added_at"`
}

// NewFavorite creates a new Favorite with generated UUID and timestamp
func NewFavorite(userID, contentID uuid.UUID, contentType ContentType, name, image string) *Favorite {
	return &Favorite{
		ID:          uuid.New(),
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		Name:        name,
		Image:       image,
		AddedAt:     time.Now().UTC(),
	}
}

// WatchHistory records a completed watch of a content item. One logical row
// per (user, content): re-watching replaces progress and timestamp in place.
type WatchHistory struct {
	ID          uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_watch_history_user_content;column:user_id"`
	ContentID   uuid.UUID   `json:"content_id" gorm:"type:text;not null;uniqueIndex:idx_watch_history_user_content;column:content_id"`
	ContentType ContentType `json:"content_type" gorm:"type:text;not null;column:content_type"`
	Progress    float64     `json:"progress" gorm:"type:real;not null;default:0;column:progress"`
	WatchedAt   time.Time   `json:"watched_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:watched_at"`
}

// NewWatchHistory creates a new WatchHistory with generated UUID and timestamp
func NewWatchHistory(userID, contentID uuid.UUID, contentType ContentType, progress float64) *WatchHistory {
	return &WatchHistory{
		ID:          uuid.New(),
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		Progress:    progress,
		WatchedAt:   time.Now().UTC(),
	}
}

// ContinueWatching records in-progress playback. Rows are deleted once a
// movie or series crosses the completion threshold; live channels persist
// until the user removes them.
type ContinueWatching struct {
	ID          uuid.UUID   `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID      uuid.UUID   `json:"user_id" gorm:"type:text;not null;uniqueIndex:idx_continue_watching_user_content;column:user_id"`
	ContentID   uuid.UUID   `json:"content_id" gorm:"type:text;not null;uniqueIndex:idx_continue_watching_user_content;column:content_id"`
	ContentType ContentType `json:"content_type" gorm:"type:text;not null;column:content_type"`
	Progress    float64     `json:"progress" gorm:"type:real;not null;default:0;column:progress"`
	Duration    float64     `json:"duration" gorm:"type:real;not null;default:0;column:duration"`
	LastWatched time.Time   `json:"last_watched" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:last_watched"`
}

// NewContinueWatching creates a new ContinueWatching with generated UUID and timestamp
func NewContinueWatching(userID, contentID uuid.UUID, contentType ContentType, progress, duration float64) *ContinueWatching {
	return &ContinueWatching{
		ID:          uuid.New(),
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		Progress:    progress,
		Duration:    duration,
		LastWatched: time.Now().UTC(),
	}
}

// SearchHistory is an append-only log of user searches
type SearchHistory struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:text;not null;index;column:user_id"`
	Query     string    `json:"query" gorm:"type:text;not null;column:query"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewSearchHistory creates a new SearchHistory with generated UUID and timestamp
func NewSearchHistory(userID uuid.UUID, query string) *SearchHistory {
	return &SearchHistory{
		ID:        uuid.New(),
		UserID:    userID,
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}
}
