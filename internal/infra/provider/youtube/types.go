package youtube

import (
	"strconv"
	"time"

	"channel-prospector/internal/domain"
)

// searchResponse is the wire shape of GET /search (type=channel).
type searchResponse struct {
	Items         []searchItem `json:"items"`
	NextPageToken string       `json:"nextPageToken"`
}

type searchItem struct {
	ID      searchItemID  `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchItemID struct {
	Kind      string `json:"kind"`
	ChannelID string `json:"channelId"`
}

type searchSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// toPage converts a search response into a domain search page, dropping
// items without a channel identifier.
func (r *searchResponse) toPage() *domain.SearchPage {
	page := &domain.SearchPage{
		Candidates:    make([]domain.Candidate, 0, len(r.Items)),
		NextPageToken: r.NextPageToken,
	}

	for _, item := range r.Items {
		if item.ID.ChannelID == "" {
			continue
		}
		page.Candidates = append(page.Candidates, domain.Candidate{
			ID:      item.ID.ChannelID,
			Title:   item.Snippet.Title,
			Snippet: item.Snippet.Description,
		})
	}

	return page
}

// channelResponse is the wire shape of GET /channels.
type channelResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID             string                `json:"id"`
	Snippet        channelSnippet        `json:"snippet"`
	Statistics     channelStatistics     `json:"statistics"`
	ContentDetails channelContentDetails `json:"contentDetails"`
}

type channelSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Country     string `json:"country"`
	Language    string `json:"defaultLanguage"`
	PublishedAt string `json:"publishedAt"`
}

// channelStatistics carries counts as decimal strings, the provider's
// convention for 64-bit values.
type channelStatistics struct {
	ViewCount       string `json:"viewCount"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
}

type channelContentDetails struct {
	RelatedPlaylists struct {
		Uploads string `json:"uploads"`
	} `json:"relatedPlaylists"`
}

// toRaw converts a channel item into the domain raw record. Missing or
// malformed numeric fields become 0; a malformed timestamp becomes the zero
// time, which the normalizer floors to one month of age.
func (c *channelItem) toRaw() *domain.RawChannel {
	createdAt, _ := time.Parse(time.RFC3339, c.Snippet.PublishedAt)

	return &domain.RawChannel{
		ID:              c.ID,
		Title:           c.Snippet.Title,
		Description:     c.Snippet.Description,
		Country:         c.Snippet.Country,
		Language:        c.Snippet.Language,
		SubscriberCount: parseCount(c.Statistics.SubscriberCount),
		ViewCount:       parseCount(c.Statistics.ViewCount),
		VideoCount:      parseCount(c.Statistics.VideoCount),
		CreatedAt:       createdAt,
		UploadsRef:      c.ContentDetails.RelatedPlaylists.Uploads,
	}
}

// playlistItemsResponse is the wire shape of GET /playlistItems.
type playlistItemsResponse struct {
	Items []playlistItem `json:"items"`
}

type playlistItem struct {
	ContentDetails struct {
		VideoID          string `json:"videoId"`
		VideoPublishedAt string `json:"videoPublishedAt"`
	} `json:"contentDetails"`
}

// videosResponse is the wire shape of GET /videos (part=statistics).
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string `json:"id"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

// parseCount coerces a provider count string to a non-negative int64.
// Missing, malformed or negative values yield 0.
func parseCount(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}

	return v
}
