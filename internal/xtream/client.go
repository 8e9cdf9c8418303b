// Package xtream talks to an Xtream Codes compatible IPTV provider and syncs
// its catalog into the local store. Credentials appear in request URLs and
// stream URLs; neither is ever logged.
package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the provider's player_api.php endpoint
type Client struct {
	host     string
	username string
	password string
	http     *http.Client
}

// NewClient validates credentials and returns a client
func NewClient(host, username, password string) (*Client, error) {
	host = strings.TrimRight(host, "/")
	if host == "" || username == "" || password == "" {
		return nil, fmt.Errorf("xtream host, username, and password are required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		return nil, fmt.Errorf("xtream host must start with http:// or https://")
	}
	return &Client{
		host:     host,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Category is one entry from a category listing
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ParentID     int    `json:"parent_id"`
}

// VODStream is one movie entry from get_vod_streams
type VODStream struct {
	Num                int         `json:"num"`
	Name               string      `json:"name"`
	StreamID           json.Number `json:"stream_id"`
	StreamIcon         string      `json:"stream_icon"`
	Rating             json.Number `json:"rating"`
	Trailer            string      `json:"trailer"`
	TmdbID             json.Number `json:"tmdb"`
	CategoryID         string      `json:"category_id"`
	ContainerExtension string      `json:"container_extension"`
	IsAdult            json.Number `json:"is_adult"`
	Added              json.Number `json:"added"`
}

// SeriesListing is one series entry from get_series
type SeriesListing struct {
	SeriesID       json.Number `json:"series_id"`
	Name           string      `json:"name"`
	Cover          string      `json:"cover"`
	Plot           string      `json:"plot"`
	Cast           string      `json:"cast"`
	Director       string      `json:"director"`
	Genre          string      `json:"genre"`
	ReleaseDate    string      `json:"release_date"`
	Rating         json.Number `json:"rating"`
	YoutubeTrailer string      `json:"youtube_trailer"`
	EpisodeRunTime json.Number `json:"episode_run_time"`
	TmdbID         json.Number `json:"tmdb"`
	CategoryID     string      `json:"category_id"`
}

// SeriesInfo is the per-series detail from get_series_info. Episodes is
// keyed by season number.
type SeriesInfo struct {
	Episodes map[string][]EpisodeInfo `json:"episodes"`
}

// EpisodeInfo is one episode within a series info response
type EpisodeInfo struct {
	ID                 json.Number `json:"id"`
	EpisodeNum         json.Number `json:"episode_num"`
	Title              string      `json:"title"`
	ContainerExtension string      `json:"container_extension"`
}

// LiveStream is one channel entry from get_live_streams
type LiveStream struct {
	Num               int         `json:"num"`
	Name              string      `json:"name"`
	StreamID          json.Number `json:"stream_id"`
	StreamIcon        string      `json:"stream_icon"`
	EpgChannelID      string      `json:"epg_channel_id"`
	CategoryID        string      `json:"category_id"`
	IsAdult           json.Number `json:"is_adult"`
	TvArchive         json.Number `json:"tv_archive"`
	TvArchiveDuration json.Number `json:"tv_archive_duration"`
	Added             json.Number `json:"added"`
}

// GetVODCategories fetches movie categories
func (c *Client) GetVODCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	return out, c.apiCall(ctx, "get_vod_categories", nil, &out)
}

// GetSeriesCategories fetches series categories
func (c *Client) GetSeriesCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	return out, c.apiCall(ctx, "get_series_categories", nil, &out)
}

// GetLiveCategories fetches live channel categories
func (c *Client) GetLiveCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	return out, c.apiCall(ctx, "get_live_categories", nil, &out)
}

// GetVODStreams fetches the movies in a category
func (c *Client) GetVODStreams(ctx context.Context, categoryID string) ([]VODStream, error) {
	var out []VODStream
	return out, c.apiCall(ctx, "get_vod_streams", url.Values{"category_id": {categoryID}}, &out)
}

// GetSeries fetches the series listings in a category
func (c *Client) GetSeries(ctx context.Context, categoryID string) ([]SeriesListing, error) {
	var out []SeriesListing
	return out, c.apiCall(ctx, "get_series", url.Values{"category_id": {categoryID}}, &out)
}

// GetSeriesInfo fetches the season and episode tree for one series
func (c *Client) GetSeriesInfo(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	var out SeriesInfo
	return &out, c.apiCall(ctx, "get_series_info", url.Values{"series_id": {seriesID}}, &out)
}

// GetLiveStreams fetches the channels in a category
func (c *Client) GetLiveStreams(ctx context.Context, categoryID string) ([]LiveStream, error) {
	var out []LiveStream
	return out, c.apiCall(ctx, "get_live_streams", url.Values{"category_id": {categoryID}}, &out)
}

// MovieURL builds the playback URL for a movie. The URL embeds credentials
// and must never be logged.
func (c *Client) MovieURL(streamID, extension string) string {
	if extension == "" {
		extension = "mp4"
	}
	return fmt.Sprintf("%s/movie/%s/%s/%s.%s", c.host, c.username, c.password, streamID, extension)
}

// EpisodeURL builds the playback URL for a series episode
func (c *Client) EpisodeURL(episodeID, extension string) string {
	if extension == "" {
		extension = "mp4"
	}
	return fmt.Sprintf("%s/series/%s/%s/%s.%s", c.host, c.username, c.password, episodeID, extension)
}

// LiveURL builds the playback URL for a live channel
func (c *Client) LiveURL(streamID string) string {
	return fmt.Sprintf("%s/live/%s/%s/%s.ts", c.host, c.username, c.password, streamID)
}

// apiCall makes a player_api.php call and decodes the JSON response into dest
func (c *Client) apiCall(ctx context.Context, action string, extra url.Values, dest interface{}) error {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("password", c.password)
	if action != "" {
		params.Set("action", action)
	}
	for key, vals := range extra {
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	apiURL := fmt.Sprintf("%s/player_api.php?%s", c.host, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("xtream request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xtream %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("xtream %s: status %d", action, resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("xtream %s decode: %w", action, err)
	}
	return nil
}
