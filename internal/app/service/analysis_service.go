package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"channel-prospector/internal/cache"
	"channel-prospector/internal/domain"
)

// ErrChannelNotFound is returned when the provider has no record of the
// requested channel id.
var ErrChannelNotFound = errors.New("channel not found")

// AnalysisService serves single-channel scoring and cache introspection, and
// re-scores persisted leads for the refresh job.
type AnalysisService struct {
	cfg        DiscoveryConfig
	provider   domain.ChannelProvider
	cache      *cache.AnalysisCache
	leads      domain.LeadRepository
	normalizer *domain.Normalizer
	logger     *zap.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(
	cfg DiscoveryConfig,
	provider domain.ChannelProvider,
	analysisCache *cache.AnalysisCache,
	leads domain.LeadRepository,
	logger *zap.Logger,
) *AnalysisService {
	normalizer := domain.NewNormalizer(nil)
	normalizer.HashEstimates = cfg.HashEstimates

	return &AnalysisService{
		cfg:        cfg,
		provider:   provider,
		cache:      analysisCache,
		leads:      leads,
		normalizer: normalizer,
		logger:     logger,
	}
}

// ScoreChannel returns the analysis for one channel, from cache when a live
// entry exists and from the provider otherwise. An empty rubric name selects
// the configured default.
func (s *AnalysisService) ScoreChannel(ctx context.Context, channelID, rubricName string) (*domain.Analysis, error) {
	if rubricName == "" {
		rubricName = s.cfg.DefaultRubric
	}
	rubric := domain.RubricByName(rubricName)

	if cached := s.cache.Get(channelID); cached != nil {
		if cached.Score.Rubric == rubric.Name {
			return cached, nil
		}
		metrics := cached.Metrics

		return &domain.Analysis{Metrics: metrics, Score: rubric.Score(&metrics)}, nil
	}

	analysis, err := s.analyze(ctx, channelID, rubric)
	if err != nil {
		return nil, err
	}

	s.cache.Set(channelID, analysis)

	return analysis, nil
}

// CacheStats reports the analysis cache's lifetime counters.
func (s *AnalysisService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops all cached analyses and the persisted entry set.
func (s *AnalysisService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// RefreshLeads re-fetches provider data for every persisted lead and updates
// its metrics and score in place, keeping each lead's original rubric. The
// stored verdict is left untouched; approval criteria are a per-run input,
// not a stored property. Returns the number of leads refreshed.
func (s *AnalysisService) RefreshLeads(ctx context.Context) (int, error) {
	if s.leads == nil {
		return 0, nil
	}

	refreshed := 0
	params := domain.LeadListParams{Page: 1, PageSize: 100}

	for {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}

		list, err := s.leads.List(ctx, params)
		if err != nil {
			return refreshed, fmt.Errorf("listing leads for refresh: %w", err)
		}
		if len(list.Leads) == 0 {
			break
		}

		for _, lead := range list.Leads {
			if ctx.Err() != nil {
				return refreshed, ctx.Err()
			}

			rubric := domain.RubricByName(lead.Score.Rubric)
			analysis, err := s.analyze(ctx, lead.Metrics.ID, rubric)
			if err != nil {
				s.logger.Warn("lead refresh failed, keeping stale record",
					zap.String("channel_id", lead.Metrics.ID),
					zap.Error(err),
				)
				continue
			}

			lead.Metrics = analysis.Metrics
			lead.Score = analysis.Score
			if err := s.leads.Upsert(ctx, lead); err != nil {
				s.logger.Warn("storing refreshed lead failed",
					zap.String("channel_id", lead.Metrics.ID),
					zap.Error(err),
				)
				continue
			}

			s.cache.Set(lead.Metrics.ID, analysis)
			refreshed++
		}

		if params.Page >= list.TotalPages {
			break
		}
		params.Page++
	}

	s.logger.Info("lead refresh completed", zap.Int("refreshed", refreshed))

	return refreshed, nil
}

// analyze runs the full fetch-normalize-score pipeline for one channel.
func (s *AnalysisService) analyze(ctx context.Context, channelID string, rubric *domain.Rubric) (*domain.Analysis, error) {
	raw, err := s.provider.ChannelDetail(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetching channel detail: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	var uploads []domain.UploadStat
	if raw.UploadsRef != "" {
		uploads, err = s.provider.RecentUploads(ctx, raw.UploadsRef, s.uploadSample())
		if err != nil {
			s.logger.Warn("recent uploads fetch failed, using catalog estimates",
				zap.String("channel_id", channelID),
				zap.Error(err),
			)
			uploads = nil
		}
	}

	metrics := s.normalizer.Normalize(*raw, uploads)

	return &domain.Analysis{Metrics: metrics, Score: rubric.Score(&metrics)}, nil
}

func (s *AnalysisService) uploadSample() int {
	if s.cfg.UploadSample > 0 && s.cfg.UploadSample <= maxUploadSample {
		return s.cfg.UploadSample
	}
	if s.cfg.UploadSample > maxUploadSample {
		return maxUploadSample
	}

	return defaultUploadSample
}
