// Package youtube implements domain.ChannelProvider against the YouTube
// Data API v3.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"channel-prospector/internal/domain"
	"channel-prospector/internal/infra/provider"
)

// API paths.
const (
	searchEndpoint        = "/search"
	channelsEndpoint      = "/channels"
	playlistItemsEndpoint = "/playlistItems"
	videosEndpoint        = "/videos"
)

// maxPageSize is the provider's hard page-size ceiling.
const maxPageSize = 50

// Client implements domain.ChannelProvider for the YouTube Data API.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new YouTube API client.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		client: provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response]("youtube", cfg.CB),
		logger: logger,
	}
}

// SearchChannels runs one paginated channel search call.
func (c *Client) SearchChannels(ctx context.Context, query domain.SearchQuery) (*domain.SearchPage, error) {
	pageSize := query.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := map[string]string{
		"part":       "snippet",
		"type":       "channel",
		"q":          query.Topic,
		"maxResults": strconv.Itoa(pageSize),
	}
	if query.Country != "" {
		params["regionCode"] = strings.ToUpper(query.Country)
	}
	if query.Language != "" {
		params["relevanceLanguage"] = strings.ToLower(query.Language)
	}
	if query.PageToken != "" {
		params["pageToken"] = query.PageToken
	}

	var result searchResponse
	if err := c.get(ctx, searchEndpoint, params, &result); err != nil {
		c.logger.Warn("channel search failed",
			zap.String("topic", query.Topic),
			zap.Error(err),
			zap.String("cb_state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("searching channels: %w", err)
	}

	page := result.toPage()

	c.logger.Debug("channel search page fetched",
		zap.String("topic", query.Topic),
		zap.Int("candidates", len(page.Candidates)),
		zap.Bool("has_next", page.NextPageToken != ""),
	)

	return page, nil
}

// ChannelDetail fetches statistics for a single channel.
// Returns nil without error when the channel does not exist.
func (c *Client) ChannelDetail(ctx context.Context, id string) (*domain.RawChannel, error) {
	params := map[string]string{
		"part": "snippet,statistics,contentDetails",
		"id":   id,
	}

	var result channelResponse
	if err := c.get(ctx, channelsEndpoint, params, &result); err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", id, err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}

	return result.Items[0].toRaw(), nil
}

// RecentUploads fetches up to max items from the channel's uploads playlist
// and enriches them with per-video interaction counts. Upload timestamps
// survive even when the statistics call returns nothing for an item.
func (c *Client) RecentUploads(ctx context.Context, uploadsRef string, max int) ([]domain.UploadStat, error) {
	if uploadsRef == "" {
		return nil, nil
	}
	if max <= 0 || max > maxPageSize {
		max = maxPageSize
	}

	var playlist playlistItemsResponse
	params := map[string]string{
		"part":       "contentDetails",
		"playlistId": uploadsRef,
		"maxResults": strconv.Itoa(max),
	}
	if err := c.get(ctx, playlistItemsEndpoint, params, &playlist); err != nil {
		return nil, fmt.Errorf("fetching uploads playlist %s: %w", uploadsRef, err)
	}

	uploads := make([]domain.UploadStat, 0, len(playlist.Items))
	videoIDs := make([]string, 0, len(playlist.Items))
	byVideoID := make(map[string]int, len(playlist.Items))

	for _, item := range playlist.Items {
		publishedAt, err := time.Parse(time.RFC3339, item.ContentDetails.VideoPublishedAt)
		if err != nil {
			continue
		}
		if item.ContentDetails.VideoID != "" {
			byVideoID[item.ContentDetails.VideoID] = len(uploads)
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
		}
		uploads = append(uploads, domain.UploadStat{PublishedAt: publishedAt})
	}

	if len(videoIDs) == 0 {
		return uploads, nil
	}

	var videos videosResponse
	statsParams := map[string]string{
		"part": "statistics",
		"id":   strings.Join(videoIDs, ","),
	}
	if err := c.get(ctx, videosEndpoint, statsParams, &videos); err != nil {
		// Timestamps alone still refine the upload cadence.
		c.logger.Debug("video statistics fetch failed, returning timestamps only",
			zap.String("playlist", uploadsRef),
			zap.Error(err),
		)

		return uploads, nil
	}

	for _, v := range videos.Items {
		idx, ok := byVideoID[v.ID]
		if !ok {
			continue
		}
		uploads[idx].Views = parseCount(v.Statistics.ViewCount)
		uploads[idx].Likes = parseCount(v.Statistics.LikeCount)
		uploads[idx].Comments = parseCount(v.Statistics.CommentCount)
	}

	return uploads, nil
}

// get issues one GET through the circuit breaker and decodes into result.
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, result any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(result).
			Get(endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("youtube returned status %d", r.StatusCode())
		}

		return r, nil
	})

	return err
}
