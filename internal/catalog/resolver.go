package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// Projection is the normalized shape used to join interaction records with
// catalog content. Image is the stream icon for movies and live channels and
// the cover for series.
type Projection struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Image string             `json:"image"`
	Type  models.ContentType `json:"type"`
}

// Resolver looks up content across the three independently-keyed catalog
// collections. Content is referenced everywhere by (id, type); the type tag
// decides which collection to consult, since the same numeric stream id can
// coincidentally appear in more than one of them.
type Resolver struct {
	repos *db.Repositories
}

// NewResolver creates a new content resolver
func NewResolver(repos *db.Repositories) *Resolver {
	return &Resolver{repos: repos}
}

// Resolve returns the normalized projection for (id, contentType).
// Absence is an ordinary result, not a fault: a malformed identifier, an
// unknown id, or an id living in a different collection all come back as
// ErrContentNotFound. A type tag outside the known set is
// ErrInvalidContentType.
func (r *Resolver) Resolve(ctx context.Context, id string, contentType models.ContentType) (*Projection, error) {
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}

	contentID, err := uuid.Parse(id)
	if err != nil {
		// Not a valid catalog key. This is a lookup, so absence, not a fault.
		return nil, ErrContentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	switch contentType {
	case models.ContentTypeMovie:
		movie, err := r.repos.Movies.GetByID(ctx, contentID)
		if err != nil {
			return nil, r.mapLookupError(err, id, contentType)
		}
		return &Projection{
			ID:    movie.ID,
			Name:  movie.Name,
			Image: deref(movie.StreamIcon),
			Type:  models.ContentTypeMovie,
		}, nil

	case models.ContentTypeSeries:
		series, err := r.repos.Series.GetByID(ctx, contentID)
		if err != nil {
			return nil, r.mapLookupError(err, id, contentType)
		}
		return &Projection{
			ID:    series.ID,
			Name:  series.Name,
			Image: deref(series.Cover),
			Type:  models.ContentTypeSeries,
		}, nil

	case models.ContentTypeLiveChannel:
		channel, err := r.repos.Channels.GetByID(ctx, contentID)
		if err != nil {
			return nil, r.mapLookupError(err, id, contentType)
		}
		return &Projection{
			ID:    channel.ID,
			Name:  channel.Name,
			Image: deref(channel.StreamIcon),
			Type:  models.ContentTypeLiveChannel,
		}, nil
	}

	return nil, ErrInvalidContentType
}

// mapLookupError collapses store-level absence into ErrContentNotFound and
// wraps anything else as an upstream failure
func (r *Resolver) mapLookupError(err error, id string, contentType models.ContentType) error {
	if db.IsNotFound(err) {
		return ErrContentNotFound
	}
	logger.Log.Error().
		Err(err).
		Str("content_id", id).
		Str("content_type", string(contentType)).
		Msg("Content lookup failed")
	return fmt.Errorf("failed to resolve content: %w", err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
