package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

const (
	// fetchLimit caps every fetch endpoint's result set
	fetchLimit = 40

	// featuredCount is the size of the featured selection
	featuredCount = 4

	cacheKeyTrending = "trending"
	cacheKeyFeatured = "featured"
	cacheTTL         = 5 * time.Minute
)

// Item is a type-tagged catalog entry. Exactly one of Movie/Series/Channel
// is set, matching Type.
type Item struct {
	Type    models.ContentType  `json:"type"`
	Movie   *models.Movie       `json:"movie,omitempty"`
	Series  *models.Series      `json:"series,omitempty"`
	Channel *models.LiveChannel `json:"channel,omitempty"`
}

// Name returns the display name of whichever variant is set
func (i Item) Name() string {
	switch i.Type {
	case models.ContentTypeMovie:
		return i.Movie.Name
	case models.ContentTypeSeries:
		return i.Series.Name
	case models.ContentTypeLiveChannel:
		return i.Channel.Name
	}
	return ""
}

// Service handles catalog browsing and the fixed-predicate fetch endpoints
type Service struct {
	repos *db.Repositories
	cache *gocache.Cache
}

// NewService creates a new catalog service
func NewService(repos *db.Repositories) *Service {
	return &Service{
		repos: repos,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// FetchMovies returns playable movies, capped at the fetch limit
func (s *Service) FetchMovies(ctx context.Context) ([]*models.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	movies, err := s.repos.Movies.ListPlayable(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrNoContent
	}
	return movies, nil
}

// FetchMovieByID returns one playable movie. A movie that exists but fails
// the playable predicate is reported as not found.
func (s *Service) FetchMovieByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	movie, err := s.repos.Movies.GetPlayableByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to fetch movie: %w", err)
	}
	return movie, nil
}

// FeaturedMovieBanner returns a small random selection of playable movies
func (s *Service) FeaturedMovieBanner(ctx context.Context) ([]*models.Movie, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	movies, err := s.repos.Movies.RandomPlayable(ctx, featuredCount)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch banner movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrNoContent
	}
	return movies, nil
}

// FetchSeries returns complete series, capped at the fetch limit
func (s *Service) FetchSeries(ctx context.Context) ([]*models.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	series, err := s.repos.Series.ListComplete(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}
	if len(series) == 0 {
		return nil, ErrNoContent
	}
	return series, nil
}

// FetchSeriesByID returns one complete series with its season tree
func (s *Service) FetchSeriesByID(ctx context.Context, id uuid.UUID) (*models.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	series, err := s.repos.Series.GetCompleteByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to fetch series: %w", err)
	}
	return series, nil
}

// FetchChannels returns playable live channels, capped at the fetch limit
func (s *Service) FetchChannels(ctx context.Context) ([]*models.LiveChannel, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	channels, err := s.repos.Channels.ListPlayable(ctx, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}
	if len(channels) == 0 {
		return nil, ErrNoContent
	}
	return channels, nil
}

// FetchChannelByID returns one playable live channel
func (s *Service) FetchChannelByID(ctx context.Context, id uuid.UUID) (*models.LiveChannel, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	channel, err := s.repos.Channels.GetPlayableByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to fetch channel: %w", err)
	}
	return channel, nil
}

// Browse filters the catalog by optional content type, genre/category, and
// name substring, and paginates the merged result
func (s *Service) Browse(ctx context.Context, contentType models.ContentType, genre, name string, page, pageSize int) (int, []Item, error) {
	if contentType != "" && !contentType.Valid() {
		return 0, nil, ErrInvalidContentType
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	var items []Item

	if contentType == "" || contentType == models.ContentTypeMovie {
		movies, err := s.repos.Movies.Browse(ctx, name, genre)
		if err != nil {
			return 0, nil, err
		}
		for _, m := range movies {
			items = append(items, Item{Type: models.ContentTypeMovie, Movie: m})
		}
	}
	if contentType == "" || contentType == models.ContentTypeSeries {
		series, err := s.repos.Series.Browse(ctx, name, genre)
		if err != nil {
			return 0, nil, err
		}
		for _, sr := range series {
			items = append(items, Item{Type: models.ContentTypeSeries, Series: sr})
		}
	}
	if contentType == "" || contentType == models.ContentTypeLiveChannel {
		channels, err := s.repos.Channels.Browse(ctx, name, genre)
		if err != nil {
			return 0, nil, err
		}
		for _, c := range channels {
			items = append(items, Item{Type: models.ContentTypeLiveChannel, Channel: c})
		}
	}

	total := len(items)
	return total, paginate(items, page, pageSize), nil
}

// Featured returns a small random selection of movies and series. The pool is
// cached; the selection itself is fresh per call.
func (s *Service) Featured(ctx context.Context) ([]Item, error) {
	pool, err := s.moviesAndSeries(ctx, cacheKeyFeatured)
	if err != nil {
		return nil, err
	}

	if len(pool) > featuredCount {
		picked := make([]Item, len(pool))
		copy(picked, pool)
		rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
		pool = picked[:featuredCount]
	}
	return pool, nil
}

// Trending returns the whole catalog in a shuffled order, paginated
func (s *Service) Trending(ctx context.Context, page, pageSize int) (int, []Item, error) {
	pool, err := s.allItems(ctx)
	if err != nil {
		return 0, nil, err
	}

	shuffled := make([]Item, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	return len(pool), paginate(shuffled, page, pageSize), nil
}

// Details returns the full record behind a content id, trying each catalog
// collection in turn. Interaction records carry a type tag; direct detail
// links do not, so this is the one place the join falls back across
// collections.
func (s *Service) Details(ctx context.Context, id uuid.UUID) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	if movie, err := s.repos.Movies.GetByID(ctx, id); err == nil {
		return &Item{Type: models.ContentTypeMovie, Movie: movie}, nil
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load details: %w", err)
	}

	if series, err := s.repos.Series.GetByID(ctx, id); err == nil {
		return &Item{Type: models.ContentTypeSeries, Series: series}, nil
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load details: %w", err)
	}

	if channel, err := s.repos.Channels.GetByID(ctx, id); err == nil {
		return &Item{Type: models.ContentTypeLiveChannel, Channel: channel}, nil
	} else if !db.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load details: %w", err)
	}

	return nil, ErrContentNotFound
}

// Categories returns the category index for all three catalog kinds
func (s *Service) Categories(ctx context.Context) (map[string][]*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	out := make(map[string][]*models.Category, 3)
	for _, kind := range []models.ContentType{models.ContentTypeMovie, models.ContentTypeSeries, models.ContentTypeLiveChannel} {
		categories, err := s.repos.Categories.ListByKind(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		out[string(kind)] = categories
	}
	return out, nil
}

// moviesAndSeries loads (and caches) the movie+series pool used by Featured
func (s *Service) moviesAndSeries(ctx context.Context, cacheKey string) ([]Item, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]Item), nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	movies, err := s.repos.Movies.List(ctx)
	if err != nil {
		return nil, err
	}
	series, err := s.repos.Series.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(movies)+len(series))
	for _, m := range movies {
		items = append(items, Item{Type: models.ContentTypeMovie, Movie: m})
	}
	for _, sr := range series {
		items = append(items, Item{Type: models.ContentTypeSeries, Series: sr})
	}

	s.cache.Set(cacheKey, items, cacheTTL)
	logger.Log.Debug().Int("count", len(items)).Msg("Refreshed featured pool")
	return items, nil
}

// allItems loads (and caches) the full cross-catalog pool used by Trending
func (s *Service) allItems(ctx context.Context) ([]Item, error) {
	if cached, ok := s.cache.Get(cacheKeyTrending); ok {
		return cached.([]Item), nil
	}

	items, err := s.moviesAndSeries(ctx, cacheKeyFeatured)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()

	channels, err := s.repos.Channels.List(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Item, 0, len(items)+len(channels))
	all = append(all, items...)
	for _, c := range channels {
		all = append(all, Item{Type: models.ContentTypeLiveChannel, Channel: c})
	}

	s.cache.Set(cacheKeyTrending, all, cacheTTL)
	return all, nil
}

// paginate slices items for a 1-based page of pageSize entries
func paginate(items []Item, page, pageSize int) []Item {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Item{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
