// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"channel-prospector/internal/cache"
	"channel-prospector/internal/domain"
)

// ErrRunAborted marks a discovery run that failed on the search call itself.
// Per-candidate failures never produce it; they are logged and skipped.
var ErrRunAborted = errors.New("discovery run aborted")

// RunState is the phase a discovery run is in.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateSearching RunState = "searching"
	StateEnriching RunState = "enriching"
	StateDone      RunState = "done"
	StateAborted   RunState = "aborted"
)

// Fallback bounds applied when neither the request nor the service config
// sets them.
const (
	defaultMaxUnique    = 100
	defaultMaxQualify   = 20
	defaultPageSize     = 25
	defaultUploadSample = 25
	maxUploadSample     = 50
)

// DiscoveryConfig carries service-level defaults for discovery runs.
type DiscoveryConfig struct {
	DefaultRubric       string
	HashEstimates       bool
	MaxUniqueCandidates int
	MaxQualifying       int
	PageSize            int
	UploadSample        int
}

// DiscoveryRequest describes one discovery run. Zero-valued bounds fall back
// to the service defaults.
type DiscoveryRequest struct {
	Topic    string
	Country  string
	Language string
	Criteria domain.FilterCriteria
	Rubric   string

	MaxUniqueCandidates int
	MaxQualifying       int
	PageSize            int
	UploadSample        int

	// Persist stores all retained prospects in the lead repository once
	// the run completes.
	Persist bool
}

// DiscoveryResult is the outcome of a run: the retained prospects ordered
// approved-first then score descending, plus run accounting.
type DiscoveryResult struct {
	Prospects  []*domain.Lead `json:"prospects"`
	State      RunState       `json:"state"`
	Pages      int            `json:"pages"`
	Unique     int            `json:"unique_candidates"`
	Qualifying int            `json:"qualifying"`
	Cancelled  bool           `json:"cancelled,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// DiscoveryService drives the paginated search-then-enrich pipeline:
// search pages are deduplicated into a run-scoped visited set, each new
// candidate is detail-fetched, normalized, scored and evaluated, and the
// analysis cache short-circuits repeat work for recently seen channels.
type DiscoveryService struct {
	cfg        DiscoveryConfig
	provider   domain.ChannelProvider
	cache      *cache.AnalysisCache
	leads      domain.LeadRepository
	normalizer *domain.Normalizer
	logger     *zap.Logger
}

// NewDiscoveryService creates a new DiscoveryService. The lead repository is
// optional; a nil repository disables persistence of results.
func NewDiscoveryService(
	cfg DiscoveryConfig,
	provider domain.ChannelProvider,
	analysisCache *cache.AnalysisCache,
	leads domain.LeadRepository,
	logger *zap.Logger,
) *DiscoveryService {
	normalizer := domain.NewNormalizer(nil)
	normalizer.HashEstimates = cfg.HashEstimates

	return &DiscoveryService{
		cfg:        cfg,
		provider:   provider,
		cache:      analysisCache,
		leads:      leads,
		normalizer: normalizer,
		logger:     logger,
	}
}

func (s *DiscoveryService) applyDefaults(req *DiscoveryRequest) {
	pick := func(v, cfg, fallback int) int {
		if v > 0 {
			return v
		}
		if cfg > 0 {
			return cfg
		}

		return fallback
	}

	req.MaxUniqueCandidates = pick(req.MaxUniqueCandidates, s.cfg.MaxUniqueCandidates, defaultMaxUnique)
	req.MaxQualifying = pick(req.MaxQualifying, s.cfg.MaxQualifying, defaultMaxQualify)
	req.PageSize = pick(req.PageSize, s.cfg.PageSize, defaultPageSize)
	req.UploadSample = pick(req.UploadSample, s.cfg.UploadSample, defaultUploadSample)
	if req.UploadSample > maxUploadSample {
		req.UploadSample = maxUploadSample
	}
	if req.Rubric == "" {
		req.Rubric = s.cfg.DefaultRubric
	}
}

// Run executes one discovery run. A cancelled context ends the run early and
// returns whatever was already retained, without error. A failing search
// call aborts the run with a single wrapped error.
func (s *DiscoveryService) Run(ctx context.Context, req DiscoveryRequest) (*DiscoveryResult, error) {
	s.applyDefaults(&req)
	rubric := domain.RubricByName(req.Rubric)

	result := &DiscoveryResult{
		Prospects: []*domain.Lead{},
		State:     StateIdle,
	}
	visited := make(map[string]struct{})
	start := time.Now()

	s.logger.Info("discovery run starting",
		zap.String("topic", req.Topic),
		zap.String("country", req.Country),
		zap.String("language", req.Language),
		zap.String("rubric", rubric.Name),
		zap.Int("max_unique", req.MaxUniqueCandidates),
		zap.Int("max_qualifying", req.MaxQualifying),
	)

	pageToken := ""

search:
	for {
		if ctx.Err() != nil {
			result.Cancelled = true
			break search
		}
		if len(visited) >= req.MaxUniqueCandidates || result.Qualifying >= req.MaxQualifying {
			break search
		}

		result.State = StateSearching
		page, err := s.provider.SearchChannels(ctx, domain.SearchQuery{
			Topic:     req.Topic,
			Country:   req.Country,
			Language:  req.Language,
			PageSize:  req.PageSize,
			PageToken: pageToken,
		})
		if err != nil {
			if ctx.Err() != nil {
				result.Cancelled = true
				break search
			}
			result.State = StateAborted
			s.logger.Error("discovery search failed",
				zap.String("topic", req.Topic),
				zap.Int("page", result.Pages+1),
				zap.Error(err),
			)

			return nil, fmt.Errorf("%w: search page %d for %q: %v",
				ErrRunAborted, result.Pages+1, req.Topic, err)
		}
		result.Pages++

		result.State = StateEnriching
		for _, candidate := range page.Candidates {
			if len(visited) >= req.MaxUniqueCandidates || result.Qualifying >= req.MaxQualifying {
				break search
			}
			if _, seen := visited[candidate.ID]; seen {
				continue
			}
			visited[candidate.ID] = struct{}{}

			if ctx.Err() != nil {
				result.Cancelled = true
				break search
			}

			lead, err := s.enrich(ctx, candidate, rubric, req)
			if err != nil {
				if ctx.Err() != nil {
					result.Cancelled = true
					break search
				}
				s.logger.Warn("candidate enrichment failed, skipping",
					zap.String("channel_id", candidate.ID),
					zap.Error(err),
				)
				continue
			}
			if lead == nil {
				continue
			}

			result.Prospects = append(result.Prospects, lead)
			if lead.Verdict.Approved {
				result.Qualifying++
			}
		}

		if page.NextPageToken == "" {
			break search
		}
		pageToken = page.NextPageToken
	}

	result.Unique = len(visited)
	result.State = StateDone
	result.Duration = time.Since(start)
	orderProspects(result.Prospects)

	if req.Persist && s.leads != nil && len(result.Prospects) > 0 {
		if err := s.leads.BulkUpsert(ctx, result.Prospects); err != nil {
			s.logger.Warn("persisting discovered prospects failed",
				zap.Int("count", len(result.Prospects)),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("discovery run completed",
		zap.String("topic", req.Topic),
		zap.Int("pages", result.Pages),
		zap.Int("unique_candidates", result.Unique),
		zap.Int("retained", len(result.Prospects)),
		zap.Int("qualifying", result.Qualifying),
		zap.Bool("cancelled", result.Cancelled),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// enrich turns one candidate into a retained lead, or nil when the candidate
// is discarded (missing channel or cheap-threshold miss).
func (s *DiscoveryService) enrich(
	ctx context.Context,
	candidate domain.Candidate,
	rubric *domain.Rubric,
	req DiscoveryRequest,
) (*domain.Lead, error) {
	analysis := s.cachedAnalysis(candidate.ID, rubric)
	if analysis == nil {
		raw, err := s.provider.ChannelDetail(ctx, candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("fetching channel detail: %w", err)
		}
		if raw == nil {
			s.logger.Debug("channel vanished between search and detail",
				zap.String("channel_id", candidate.ID),
			)

			return nil, nil
		}

		// Cheap-threshold discard: skip the uploads fetch and scoring for
		// channels that already miss the subscriber floor.
		if req.Criteria.MinSubscribers > 0 && raw.SubscriberCount < req.Criteria.MinSubscribers {
			s.logger.Debug("candidate below subscriber floor, discarding",
				zap.String("channel_id", candidate.ID),
				zap.Int64("subscribers", raw.SubscriberCount),
			)

			return nil, nil
		}

		var uploads []domain.UploadStat
		if raw.UploadsRef != "" {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			uploads, err = s.provider.RecentUploads(ctx, raw.UploadsRef, req.UploadSample)
			if err != nil {
				// Uploads refine frequency and engagement but are not
				// required; fall back to catalog-derived estimates.
				s.logger.Warn("recent uploads fetch failed, using catalog estimates",
					zap.String("channel_id", candidate.ID),
					zap.Error(err),
				)
				uploads = nil
			}
		}

		metrics := s.normalizer.Normalize(*raw, uploads)
		score := rubric.Score(&metrics)
		analysis = &domain.Analysis{Metrics: metrics, Score: score}

		if s.cache != nil {
			s.cache.Set(candidate.ID, analysis)
		}
	}

	verdict := domain.Evaluate(&analysis.Metrics, req.Criteria)

	return &domain.Lead{
		Metrics:      analysis.Metrics,
		Score:        analysis.Score,
		Verdict:      verdict,
		Topic:        req.Topic,
		DiscoveredAt: time.Now().UTC(),
	}, nil
}

// cachedAnalysis returns a cache hit adjusted to the requested rubric, or
// nil on a miss. A hit scored under a different rubric is re-scored from its
// cached metrics without any network round trip.
func (s *DiscoveryService) cachedAnalysis(channelID string, rubric *domain.Rubric) *domain.Analysis {
	if s.cache == nil {
		return nil
	}

	cached := s.cache.Get(channelID)
	if cached == nil {
		return nil
	}
	if cached.Score.Rubric == rubric.Name {
		return cached
	}

	metrics := cached.Metrics

	return &domain.Analysis{Metrics: metrics, Score: rubric.Score(&metrics)}
}

// orderProspects sorts approved entries before rejected ones, descending
// score within each group. Ties keep their discovery order.
func orderProspects(prospects []*domain.Lead) {
	sort.SliceStable(prospects, func(i, j int) bool {
		a, b := prospects[i], prospects[j]
		if a.Verdict.Approved != b.Verdict.Approved {
			return a.Verdict.Approved
		}

		return a.Score.Score > b.Score.Score
	})
}
