package continuewatch

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

// completionRatio is the progress/duration fraction past which a movie or
// series watch is considered finished and leaves the continue-watching rail
const completionRatio = 0.9

// Outcome reports what a save call did
type Outcome string

const (
	// OutcomeSaved means the entry was created or refreshed
	OutcomeSaved Outcome = "saved"
	// OutcomeRemoved means the watch crossed the completion threshold and
	// the entry was removed instead of saved
	OutcomeRemoved Outcome = "removed_from_continue"
)

// Entry is a continue-watching record joined against the live catalog
type Entry struct {
	ContentID   uuid.UUID          `json:"content_id"`
	ContentType models.ContentType `json:"content_type"`
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	Progress    float64            `json:"progress"`
	Duration    float64            `json:"duration"`
	LastWatched time.Time          `json:"last_watched"`
}

// Service handles the per-user continue-watching rail
type Service struct {
	repos    *db.Repositories
	resolver *catalog.Resolver
}

// NewService creates a new continue-watching service
func NewService(repos *db.Repositories, resolver *catalog.Resolver) *Service {
	return &Service{repos: repos, resolver: resolver}
}

// SaveProgress records playback position in seconds. The content must exist
// in the catalog. A movie or series with a known duration is removed from
// the rail once it crosses the completion ratio; a live channel is never
// auto-removed since a live stream has no notion of completion. Saving is a
// single atomic upsert keyed on the (user, content) pair.
func (s *Service) SaveProgress(ctx context.Context, userID, contentID uuid.UUID, contentType models.ContentType, progress, duration float64) (Outcome, error) {
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

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	finishable := contentType != models.ContentTypeLiveChannel && duration > 0
	if finishable && progress/duration >= completionRatio {
		err := s.repos.ContinueWatching.DeleteByUserContent(ctx, userID, contentID)
		if err != nil && !db.IsNotFound(err) {
			return "", fmt.Errorf("failed to remove finished entry: %w", err)
		}
		logger.Log.Debug().
			Str("user_id", userID.String()).
			Str("content_id", contentID.String()).
			Msg("Watch completed, entry removed")
		return OutcomeRemoved, nil
	}

	record := models.NewContinueWatching(userID, contentID, contentType, progress, duration)
	if err := s.repos.ContinueWatching.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save progress: %w", err)
	}
	return OutcomeSaved, nil
}

// List returns the user's continue-watching rail, most recently watched
// first, joined against the catalog. Entries whose content no longer
// resolves are dropped from the response.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	dbCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	records, err := s.repos.ContinueWatching.ListByUser(dbCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list continue watching: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		projection, err := s.resolver.Resolve(ctx, record.ContentID.String(), record.ContentType)
		if err != nil {
			if catalog.IsContentNotFound(err) {
				// Content left the catalog. Nothing to resume, skip it.
				continue
			}
			return nil, fmt.Errorf("failed to resolve continue watching entry: %w", err)
		}

		entries = append(entries, Entry{
			ContentID:   record.ContentID,
			ContentType: record.ContentType,
			Name:        projection.Name,
			Image:       projection.Image,
			Progress:    record.Progress,
			Duration:    record.Duration,
			LastWatched: record.LastWatched,
		})
	}
	return entries, nil
}

// Remove deletes one entry from the user's rail
func (s *Service) Remove(ctx context.Context, userID, contentID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	if err := s.repos.ContinueWatching.DeleteByUserContent(ctx, userID, contentID); err != nil {
		if db.IsNotFound(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to remove continue watching entry: %w", err)
	}
	return nil
}
