package recommend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

// DefaultPageSize is the recommendation page size when the caller gives none
const DefaultPageSize = 12

// Recommendation is one similar-content suggestion joined against the catalog
type Recommendation struct {
	ContentID   uuid.UUID          `json:"content_id"`
	ContentType models.ContentType `json:"content_type"`
	Name        string             `json:"name"`
	Image       string             `json:"image"`
	Score       float64            `json:"score"`
}

// Service serves similar-content suggestions from the precomputed
// similarity graph
type Service struct {
	repos    *db.Repositories
	resolver *catalog.Resolver
}

// NewService creates a new recommendation service
func NewService(repos *db.Repositories, resolver *catalog.Resolver) *Service {
	return &Service{repos: repos, resolver: resolver}
}

// ForContent returns content similar to the seed item, highest score first.
// Suggestions whose target no longer resolves are dropped before pagination,
// so a page is short only at the true end of the list. An unknown seed id
// simply has no edges and yields an empty page.
func (s *Service) ForContent(ctx context.Context, contentID uuid.UUID, page, pageSize int) (int, []Recommendation, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	dbCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	edges, err := s.repos.Similarities.ListByContent(dbCtx, contentID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list similarities: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(edges))
	resolved := make([]Recommendation, 0, len(edges))
	for _, edge := range edges {
		if _, ok := seen[edge.SimilarContentID]; ok {
			continue
		}
		seen[edge.SimilarContentID] = struct{}{}

		projection, err := s.resolver.Resolve(ctx, edge.SimilarContentID.String(), edge.SimilarContentType)
		if err != nil {
			if catalog.IsContentNotFound(err) {
				// Stale edge, target left the catalog since the last
				// similarity run
				continue
			}
			return 0, nil, fmt.Errorf("failed to resolve recommendation: %w", err)
		}

		resolved = append(resolved, Recommendation{
			ContentID:   edge.SimilarContentID,
			ContentType: edge.SimilarContentType,
			Name:        projection.Name,
			Image:       projection.Image,
			Score:       edge.SimilarityScore,
		})
	}

	total := len(resolved)
	start := (page - 1) * pageSize
	if start >= total {
		return total, []Recommendation{}, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return total, resolved[start:end], nil
}
