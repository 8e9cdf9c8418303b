package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// DefaultLimit bounds a search result set when the caller gives no limit
const DefaultLimit = 50

// Result is one search hit across any catalog collection
type Result struct {
	ID    uuid.UUID          `json:"id"`
	Name  string             `json:"name"`
	Image string             `json:"image"`
	Type  models.ContentType `json:"type"`
}

// Service handles cross-catalog search and the per-user search log
type Service struct {
	repos *db.Repositories
}

// NewService creates a new search service
func NewService(repos *db.Repositories) *Service {
	return &Service{repos: repos}
}

// Search finds content whose name contains the query, case-insensitively,
// across all three catalog collections. The query is logged to the user's
// search history before the lookup runs, so zero-result searches are
// recorded too. Results are sorted by name, case-insensitively, and
// truncated to limit.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrBlankQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	if err := s.repos.SearchHistory.Create(ctx, models.NewSearchHistory(userID, query)); err != nil {
		return nil, fmt.Errorf("failed to log search: %w", err)
	}

	movies, err := s.repos.Movies.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	series, err := s.repos.Series.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search series: %w", err)
	}
	channels, err := s.repos.Channels.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search channels: %w", err)
	}

	results := make([]Result, 0, len(movies)+len(series)+len(channels))
	for _, m := range movies {
		results = append(results, Result{ID: m.ID, Name: m.Name, Image: deref(m.StreamIcon), Type: models.ContentTypeMovie})
	}
	for _, sr := range series {
		results = append(results, Result{ID: sr.ID, Name: sr.Name, Image: deref(sr.Cover), Type: models.ContentTypeSeries})
	}
	for _, c := range channels {
		results = append(results, Result{ID: c.ID, Name: c.Name, Image: deref(c.StreamIcon), Type: models.ContentTypeLiveChannel})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Log.Debug().
		Str("user_id", userID.String()).
		Str("query", query).
		Int("results", len(results)).
		Msg("Search executed")
	return results, nil
}

// History returns the user's past searches, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*models.SearchHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	entries, err := s.repos.SearchHistory.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	return entries, nil
}

// DeleteHistoryEntry removes one search log entry. The entry must belong to
// the user; someone else's entry is indistinguishable from a missing one.
func (s *Service) DeleteHistoryEntry(ctx context.Context, userID, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	entry, err := s.repos.SearchHistory.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to load search history entry: %w", err)
	}
	if entry.UserID != userID {
		return ErrEntryNotFound
	}

	if err := s.repos.SearchHistory.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete search history entry: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ClearHistory removes the user's entire search log and reports how many
// entries were deleted
func (s *Service) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	count, err := s.repos.SearchHistory.ClearByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear search history: %w", err)
	}
	return count, nil
}
