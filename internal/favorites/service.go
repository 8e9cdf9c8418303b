package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// Action reports what a toggle call did
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Entry is a favorite joined against the live catalog. When the underlying
// content is gone, Resolved is false and Name/Image come from the values
// captured when the favorite was created.
type Entry struct {
	ContentID   uuid.UUID          `json:"content_id"`
	ContentType models.ContentType `json:"content_type"`
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	Resolved    bool               `json:"resolved"`
	AddedAt     time.Time          `json:"added_at"`
}

// Service handles favorite toggling and listing
type Service struct {
	repos    *db.Repositories
	resolver *catalog.Resolver
}

// NewService creates a new favorites service
func NewService(repos *db.Repositories, resolver *catalog.Resolver) *Service {
	return &Service{repos: repos, resolver: resolver}
}

// Toggle flips the favorite state for (user, content) and reports which way
// it went. Both directions are single atomic writes, so concurrent toggles
// settle on one consistent outcome. Adding requires the content to exist in
// the catalog, and its name and image are captured from there. Removal skips
// the catalog lookup so stale favorites can still be cleared.
func (s *Service) Toggle(ctx context.Context, userID, contentID uuid.UUID, contentType models.ContentType) (Action, error) {
	if !contentType.Valid() {
		return "", ErrInvalidContentType
	}

	dbCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	removed, err := s.repos.Favorites.DeleteByUserContent(dbCtx, userID, contentID)
	if err != nil {
		return "", fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if removed {
		logger.Log.Debug().
			Str("user_id", userID.String()).
			Str("content_id", contentID.String()).
			Msg("Favorite removed")
		return ActionRemoved, nil
	}

	projection, err := s.resolver.Resolve(ctx, contentID.String(), contentType)
	if err != nil {
		if catalog.IsContentNotFound(err) {
			return "", ErrContentNotFound
		}
		return "", fmt.Errorf("failed to resolve favorite content: %w", err)
	}

	favorite := models.NewFavorite(userID, contentID, contentType, projection.Name, projection.Image)
	created, err := s.repos.Favorites.CreateIfAbsent(dbCtx, favorite)
	if err != nil {
		return "", fmt.Errorf("failed to add favorite: %w", err)
	}
	if !created {
		// Lost a race against a concurrent add. The pair is favorited
		// either way, so report the add.
		logger.Log.Debug().
			Str("user_id", userID.String()).
			Str("content_id", contentID.String()).
			Msg("Favorite already present")
	}

	logger.Log.Debug().
		Str("user_id", userID.String()).
		Str("content_id", contentID.String()).
		Str("content_type", string(contentType)).
		Msg("Favorite added")
	return ActionAdded, nil
}

// List returns the user's favorites, optionally filtered by content type,
// each joined against the catalog. Entries whose content no longer resolves
// are kept with their captured name and image.
func (s *Service) List(ctx context.Context, userID uuid.UUID, contentType models.ContentType) ([]Entry, error) {
	if contentType != "" && !contentType.Valid() {
		return nil, ErrInvalidContentType
	}

	dbCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	records, err := s.repos.Favorites.ListByUser(dbCtx, userID, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entry := Entry{
			ContentID:   record.ContentID,
			ContentType: record.ContentType,
			Name:        record.Name,
			Image:       record.Image,
			AddedAt:     record.AddedAt,
		}

		projection, err := s.resolver.Resolve(ctx, record.ContentID.String(), record.ContentType)
		switch {
		case err == nil:
			entry.Name = projection.Name
			entry.Image = projection.Image
			entry.Resolved = true
		case catalog.IsContentNotFound(err):
			// Content left the catalog after it was favorited. Keep the
			// entry on its captured values.
		default:
			return nil, fmt.Errorf("failed to resolve favorite: %w", err)
		}

		entries = append(entries, entry)
	}
	return entries, nil
}
