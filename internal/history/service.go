package history

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

// CompletionThreshold is the progress/duration fraction at which a watch
// counts as completed and enters history
const CompletionThreshold = 0.9

// DefaultListLimit bounds a history listing when the caller gives no limit
const DefaultListLimit = 20

// Status reports what a record call did
type Status string

const (
	// StatusAdded means a new history entry was created
	StatusAdded Status = "added"
	// StatusUpdated means an existing entry was refreshed in place
	StatusUpdated Status = "updated"
	// StatusSkipped means progress was below the completion threshold
	StatusSkipped Status = "skipped"
)

// Entry is a history record joined against the live catalog
type Entry struct {
	ID          uuid.UUID          `json:"id"`
	ContentID   uuid.UUID          `json:"content_id"`
	ContentType models.ContentType `json:"content_type"`
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	Progress    float64            `json:"progress"`
	WatchedAt   time.Time          `json:"watched_at"`
}

// Service handles the per-user watch history log
type Service struct {
	repos    *db.Repositories
	resolver *catalog.Resolver
}

// NewService creates a new watch history service
func NewService(repos *db.Repositories, resolver *catalog.Resolver) *Service {
	return &Service{repos: repos, resolver: resolver}
}

// Record logs a watch when it qualifies as completed. Movies and series
// qualify once progress/duration reaches the completion threshold; a live
// channel watch always counts, completion has no meaning for a live stream.
// The content must exist in the catalog. Re-watching replaces the existing
// entry rather than appending a second one.
func (s *Service) Record(ctx context.Context, userID, contentID uuid.UUID, contentType models.ContentType, progress, duration float64) (Status, error) {
	if !contentType.Valid() {
		return "", ErrInvalidContentType
	}
	if progress < 0 || duration < 0 {
		return "", ErrInvalidProgress
	}

	if _, err := s.resolver.Resolve(ctx, contentID.String(), contentType); err != nil {
		if catalog.IsContentNotFound(err) {
			return "", ErrContentNotFound
		}
		return "", fmt.Errorf("failed to resolve watched content: %w", err)
	}

	completed := contentType == models.ContentTypeLiveChannel ||
		(duration > 0 && progress/duration >= CompletionThreshold)
	if !completed {
		return StatusSkipped, nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	// Existence is checked only to name the outcome. The write itself is a
	// single atomic upsert, so a racing report cannot create a second row;
	// at worst both report "added".
	status := StatusAdded
	if _, err := s.repos.WatchHistory.GetByUserContent(ctx, userID, contentID); err == nil {
		status = StatusUpdated
	} else if !db.IsNotFound(err) {
		return "", fmt.Errorf("failed to check watch history: %w", err)
	}

	record := models.NewWatchHistory(userID, contentID, contentType, progress)
	if err := s.repos.WatchHistory.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to record watch: %w", err)
	}

	logger.Log.Debug().
		Str("user_id", userID.String()).
		Str("content_id", contentID.String()).
		Str("status", string(status)).
		Float64("progress", progress).
		Msg("Watch recorded")
	return status, nil
}

// List returns the user's most recent watches, newest first, at most one
// entry per content item, joined against the catalog and truncated to limit.
// Entries whose content no longer resolves are omitted.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	dbCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	records, err := s.repos.WatchHistory.ListByUser(dbCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}

	// Dedup and resolve before truncating so an older duplicate or a
	// vanished item never pushes distinct content out of the window
	seen := make(map[uuid.UUID]struct{}, len(records))
	out := make([]Entry, 0, limit)
	for _, record := range records {
		if _, ok := seen[record.ContentID]; ok {
			continue
		}
		seen[record.ContentID] = struct{}{}

		projection, err := s.resolver.Resolve(ctx, record.ContentID.String(), record.ContentType)
		if err != nil {
			if catalog.IsContentNotFound(err) {
				// Content left the catalog, nothing to show for it
				continue
			}
			return nil, fmt.Errorf("failed to resolve history entry: %w", err)
		}

		out = append(out, Entry{
			ID:          record.ID,
			ContentID:   record.ContentID,
			ContentType: record.ContentType,
			Name:        projection.Name,
			Image:       projection.Image,
			Progress:    record.Progress,
			WatchedAt:   record.WatchedAt,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Delete removes one history entry owned by the user
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	if err := s.repos.WatchHistory.Delete(ctx, userID, id); err != nil {
		if db.IsNotFound(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete watch history: %w", err)
	}
	return nil
}

// Clear removes the user's entire watch history and reports how many entries
// were deleted
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	count, err := s.repos.WatchHistory.ClearByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear watch history: %w", err)
	}

	logger.Log.Info().
		Str("user_id", userID.String()).
		Int64("count", count).
		Msg("Watch history cleared")
	return count, nil
}
