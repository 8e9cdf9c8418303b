package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveChannel represents a live TV channel entry in the catalog
type LiveChannel struct {
	ID                uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	StreamID          int        `json:"stream_id" gorm:"type:integer;not null;uniqueIndex;column:stream_id"`
	Name              string     `json:"name" gorm:"type:text;not null;column:name" validate:"required"`
	StreamType        string     `json:"stream_type" gorm:"type:text;not null;default:live;column:stream_type"`
	StreamIcon        *string    `json:"stream_icon,omitempty" gorm:"type:text;column:stream_icon"`
	StreamURL         *string    `json:"stream_url,omitempty" gorm:"type:text;column:stream_url"`
	EpgChannelID      *string    `json:"epg_channel_id,omitempty" gorm:"type:text;column:epg_channel_id"`
	CategoryID        *string    `json:"category_id,omitempty" gorm:"type:text;column:category_id"`
	CategoryName      *string    `json:"category_name,omitempty" gorm:"type:text;column:category_name"`
	IsAdult           bool       `json:"is_adult" gorm:"type:integer;not null;default:0;column:is_adult"`
	TvArchive         *int       `json:"tv_archive,omitempty" gorm:"type:integer;column:tv_archive"`
	TvArchiveDuration *int       `json:"tv_archive_duration,omitempty" gorm:"type:integer;column:tv_archive_duration"`
	Added             *time.Time `json:"added,omitempty" gorm:"type:datetime;column:added"`
	LastUpdated       time.Time  `json:"last_updated" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:last_updated"`
}

// NewLiveChannel creates a new LiveChannel with generated UUID and timestamp
func NewLiveChannel(streamID int, name string) *LiveChannel {
	return &LiveChannel{
		ID:          uuid.New(),
		StreamID:    streamID,
		Name:        name,
		StreamType:  "live",
		LastUpdated: time.Now().UTC(),
	}
}

// Playable reports whether the channel carries a name, an icon, and a stream URL
func (c *LiveChannel) Playable() bool {
	return c.Name != "" &&
		c.StreamIcon != nil && *c.StreamIcon != "" &&
		c.StreamURL != nil && *c.StreamURL != ""
}
