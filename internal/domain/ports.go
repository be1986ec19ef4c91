package domain

import (
	"context"
)

// SearchQuery describes one page of a provider channel search.
type SearchQuery struct {
	Topic     string
	Country   string // two-letter region code, optional
	Language  string // two-letter language code, optional
	PageSize  int
	PageToken string // empty for the first page
}

// SearchPage is one page of search results. An empty NextPageToken means
// the provider has no further pages.
type SearchPage struct {
	Candidates    []Candidate
	NextPageToken string
}

// ChannelProvider defines the external content-platform API surface the
// pipeline depends on.
// Implementations: internal/infra/provider/youtube
type ChannelProvider interface {
	// SearchChannels runs one paginated keyword/locale search call.
	SearchChannels(ctx context.Context, query SearchQuery) (*SearchPage, error)

	// ChannelDetail fetches the raw statistics record for one channel.
	// Returns nil without error when the channel does not exist.
	ChannelDetail(ctx context.Context, id string) (*RawChannel, error)

	// RecentUploads fetches up to max recent uploads from the channel's
	// uploads collection, including per-item interaction counts when the
	// provider exposes them.
	RecentUploads(ctx context.Context, uploadsRef string, max int) ([]UploadStat, error)
}

// BlobStore is the durable key-value storage used by the analysis cache for
// its serialized entry set.
// Implementations: internal/infra/redisstore
type BlobStore interface {
	// Get retrieves a value by key. Returns nil, nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Idempotent.
	Delete(ctx context.Context, key string) error
}

// LeadRepository persists evaluated prospects.
// Implementations: internal/infra/postgres
type LeadRepository interface {
	// Upsert creates or updates a single lead keyed by channel id.
	Upsert(ctx context.Context, lead *Lead) error

	// BulkUpsert creates or updates multiple leads in a batch.
	BulkUpsert(ctx context.Context, leads []*Lead) error

	// GetByChannelID retrieves a lead by channel id; nil when absent.
	GetByChannelID(ctx context.Context, channelID string) (*Lead, error)

	// List returns leads matching params, approved-first then score
	// descending.
	List(ctx context.Context, params LeadListParams) (*LeadList, error)

	// Count returns the number of leads matching params.
	Count(ctx context.Context, params LeadListParams) (int64, error)

	// Delete removes a lead by channel id.
	Delete(ctx context.Context, channelID string) error
}
