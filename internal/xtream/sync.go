package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// SyncReport counts what a sync run touched
type SyncReport struct {
	Categories int `json:"categories"`
	Movies     int `json:"movies"`
	Series     int `json:"series"`
	Channels   int `json:"channels"`
}

// SyncService pulls the upstream catalog into the local store. Everything is
// written through stream-id keyed upserts, so repeat runs refresh in place.
type SyncService struct {
	repos *db.Repositories
	cfg   config.XtreamConfig
}

// NewSyncService creates a new catalog sync service
func NewSyncService(repos *db.Repositories, cfg config.XtreamConfig) *SyncService {
	return &SyncService{repos: repos, cfg: cfg}
}

// SyncAll refreshes categories and all three catalogs from the provider.
// Per-item failures are logged and skipped; the run keeps going so one bad
// upstream record cannot starve the rest of the catalog.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncReport, error) {
	client, err := NewClient(s.cfg.Host, s.cfg.Username, s.cfg.Password)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	started := time.Now()

	movieCats, err := s.syncCategories(ctx, client, models.ContentTypeMovie)
	if err != nil {
		return nil, err
	}
	seriesCats, err := s.syncCategories(ctx, client, models.ContentTypeSeries)
	if err != nil {
		return nil, err
	}
	liveCats, err := s.syncCategories(ctx, client, models.ContentTypeLiveChannel)
	if err != nil {
		return nil, err
	}
	report.Categories = len(movieCats) + len(seriesCats) + len(liveCats)

	for _, cat := range movieCats {
		n, err := s.syncMovies(ctx, client, cat)
		if err != nil {
			return report, err
		}
		report.Movies += n
	}
	for _, cat := range seriesCats {
		n, err := s.syncSeries(ctx, client, cat)
		if err != nil {
			return report, err
		}
		report.Series += n
	}
	for _, cat := range liveCats {
		n, err := s.syncChannels(ctx, client, cat)
		if err != nil {
			return report, err
		}
		report.Channels += n
	}

	logger.Log.Info().
		Int("categories", report.Categories).
		Int("movies", report.Movies).
		Int("series", report.Series).
		Int("channels", report.Channels).
		Dur("elapsed", time.Since(started)).
		Msg("Catalog sync finished")
	return report, nil
}

func (s *SyncService) syncCategories(ctx context.Context, client *Client, kind models.ContentType) ([]Category, error) {
	var (
		cats []Category
		err  error
	)
	switch kind {
	case models.ContentTypeMovie:
		cats, err = client.GetVODCategories(ctx)
	case models.ContentTypeSeries:
		cats, err = client.GetSeriesCategories(ctx)
	default:
		cats, err = client.GetLiveCategories(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s categories: %w", kind, err)
	}

	for _, cat := range cats {
		record := models.NewCategory(kind, cat.CategoryID, cat.CategoryName)
		record.ParentID = cat.ParentID
		if err := s.repos.Categories.Upsert(ctx, record); err != nil {
			logger.Log.Warn().Err(err).
				Str("category_id", cat.CategoryID).
				Str("kind", string(kind)).
				Msg("Skipping category")
		}
	}
	return cats, nil
}

func (s *SyncService) syncMovies(ctx context.Context, client *Client, cat Category) (int, error) {
	streams, err := client.GetVODStreams(ctx, cat.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch movies for category %s: %w", cat.CategoryID, err)
	}

	count := 0
	for _, stream := range streams {
		streamID, err := numToInt(stream.StreamID)
		if err != nil || streamID == 0 {
			logger.Log.Warn().Str("name", stream.Name).Msg("Skipping movie without stream id")
			continue
		}

		movie := models.NewMovie(streamID, stream.Name)
		movie.StreamIcon = optional(stream.StreamIcon)
		movie.Trailer = optional(stream.Trailer)
		movie.CategoryID = optional(stream.CategoryID)
		movie.CategoryName = optional(cat.CategoryName)
		movie.IsAdult = numToInt64(stream.IsAdult) != 0
		if tmdb := stream.TmdbID.String(); tmdb != "" && tmdb != "0" {
			movie.TmdbID = &tmdb
		}
		if rating, err := stream.Rating.Float64(); err == nil && rating > 0 {
			movie.Rating = &rating
		}
		if added := numToInt64(stream.Added); added > 0 {
			t := time.Unix(added, 0).UTC()
			movie.Added = &t
		}

		ext := stream.ContainerExtension
		if ext == "" {
			ext = "mp4"
		}
		movie.ContainerExtension = &ext
		streamURL := client.MovieURL(stream.StreamID.String(), ext)
		movie.StreamURL = &streamURL

		if err := s.repos.Movies.UpsertByStreamID(ctx, movie); err != nil {
			logger.Log.Warn().Err(err).Int("stream_id", streamID).Msg("Skipping movie")
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) syncSeries(ctx context.Context, client *Client, cat Category) (int, error) {
	listings, err := client.GetSeries(ctx, cat.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch series for category %s: %w", cat.CategoryID, err)
	}

	count := 0
	for _, listing := range listings {
		seriesID, err := numToInt(listing.SeriesID)
		if err != nil || seriesID == 0 {
			logger.Log.Warn().Str("name", listing.Name).Msg("Skipping series without series id")
			continue
		}

		info, err := client.GetSeriesInfo(ctx, listing.SeriesID.String())
		if err != nil {
			logger.Log.Warn().Err(err).Int("series_id", seriesID).Msg("Skipping series, info fetch failed")
			continue
		}

		series := models.NewSeries(seriesID, listing.Name)
		series.Cover = optional(listing.Cover)
		series.Plot = optional(listing.Plot)
		series.Cast = optional(listing.Cast)
		series.Director = optional(listing.Director)
		series.Genre = optional(listing.Genre)
		series.Trailer = optional(listing.YoutubeTrailer)
		series.CategoryID = optional(listing.CategoryID)
		series.CategoryName = optional(cat.CategoryName)
		if tmdb := listing.TmdbID.String(); tmdb != "" && tmdb != "0" {
			series.TmdbID = &tmdb
		}
		if rating, err := listing.Rating.Float64(); err == nil && rating > 0 {
			series.Rating = &rating
		}
		if runtime, err := numToInt(listing.EpisodeRunTime); err == nil && runtime > 0 {
			series.EpisodeRunTime = &runtime
		}
		if listing.ReleaseDate != "" {
			if t, err := time.Parse("2006-01-02", listing.ReleaseDate); err == nil {
				series.ReleaseDate = &t
			}
		}
		series.Seasons = buildSeasons(client, info)

		if err := s.repos.Series.UpsertBySeriesID(ctx, series); err != nil {
			logger.Log.Warn().Err(err).Int("series_id", seriesID).Msg("Skipping series")
			continue
		}
		count++
	}
	return count, nil
}

func (s *SyncService) syncChannels(ctx context.Context, client *Client, cat Category) (int, error) {
	streams, err := client.GetLiveStreams(ctx, cat.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch channels for category %s: %w", cat.CategoryID, err)
	}

	count := 0
	for _, stream := range streams {
		streamID, err := numToInt(stream.StreamID)
		if err != nil || streamID == 0 {
			logger.Log.Warn().Str("name", stream.Name).Msg("Skipping channel without stream id")
			continue
		}

		channel := models.NewLiveChannel(streamID, stream.Name)
		channel.StreamIcon = optional(stream.StreamIcon)
		channel.EpgChannelID = optional(stream.EpgChannelID)
		channel.CategoryID = optional(stream.CategoryID)
		channel.CategoryName = optional(cat.CategoryName)
		channel.IsAdult = numToInt64(stream.IsAdult) != 0
		if archive, err := numToInt(stream.TvArchive); err == nil {
			channel.TvArchive = &archive
		}
		if duration, err := numToInt(stream.TvArchiveDuration); err == nil {
			channel.TvArchiveDuration = &duration
		}
		if added := numToInt64(stream.Added); added > 0 {
			t := time.Unix(added, 0).UTC()
			channel.Added = &t
		}
		streamURL := client.LiveURL(stream.StreamID.String())
		channel.StreamURL = &streamURL

		if err := s.repos.Channels.UpsertByStreamID(ctx, channel); err != nil {
			logger.Log.Warn().Err(err).Int("stream_id", streamID).Msg("Skipping channel")
			continue
		}
		count++
	}
	return count, nil
}

// buildSeasons turns a series info response into an ordered season tree
func buildSeasons(client *Client, info *SeriesInfo) []models.Season {
	if info == nil || len(info.Episodes) == 0 {
		return nil
	}

	seasonNums := make([]int, 0, len(info.Episodes))
	byNum := make(map[int][]EpisodeInfo, len(info.Episodes))
	for key, eps := range info.Episodes {
		num, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		seasonNums = append(seasonNums, num)
		byNum[num] = eps
	}
	sort.Ints(seasonNums)

	seasons := make([]models.Season, 0, len(seasonNums))
	for _, num := range seasonNums {
		season := models.Season{
			ID:           uuid.New(),
			SeasonNumber: num,
		}
		for _, ep := range byNum[num] {
			epID, err := numToInt(ep.ID)
			if err != nil || epID == 0 {
				continue
			}
			epNum, _ := numToInt(ep.EpisodeNum)
			season.Episodes = append(season.Episodes, models.Episode{
				ID:         uuid.New(),
				EpisodeNum: epNum,
				Title:      ep.Title,
				StreamID:   epID,
				StreamURL:  client.EpisodeURL(ep.ID.String(), ep.ContainerExtension),
			})
		}
		if len(season.Episodes) > 0 {
			seasons = append(seasons, season)
		}
	}
	return seasons
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func numToInt(n json.Number) (int, error) {
	if n.String() == "" {
		return 0, fmt.Errorf("empty number")
	}
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func numToInt64(n json.Number) int64 {
	v, err := n.Int64()
	if err != nil {
		return 0
	}
	return v
}
