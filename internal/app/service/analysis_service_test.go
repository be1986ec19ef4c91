package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channel-prospector/internal/cache"
	"channel-prospector/internal/domain"
)

// memLeadRepo is an in-memory LeadRepository for refresh tests.
type memLeadRepo struct {
	leads    []*domain.Lead
	upserted []string
}

func (r *memLeadRepo) Upsert(_ context.Context, lead *domain.Lead) error {
	r.upserted = append(r.upserted, lead.Metrics.ID)

	return nil
}

func (r *memLeadRepo) BulkUpsert(context.Context, []*domain.Lead) error { return nil }

func (r *memLeadRepo) GetByChannelID(context.Context, string) (*domain.Lead, error) {
	return nil, nil
}

func (r *memLeadRepo) List(_ context.Context, params domain.LeadListParams) (*domain.LeadList, error) {
	params.Validate()

	start := params.Offset()
	if start >= len(r.leads) {
		return domain.NewLeadList([]*domain.Lead{}, int64(len(r.leads)), params), nil
	}
	end := start + params.Limit()
	if end > len(r.leads) {
		end = len(r.leads)
	}

	return domain.NewLeadList(r.leads[start:end], int64(len(r.leads)), params), nil
}

func (r *memLeadRepo) Count(context.Context, domain.LeadListParams) (int64, error) {
	return int64(len(r.leads)), nil
}

func (r *memLeadRepo) Delete(context.Context, string) error { return nil }

func newAnalysisService(t *testing.T, p *fakeProvider, c *cache.AnalysisCache, repo domain.LeadRepository) *AnalysisService {
	t.Helper()
	if c == nil {
		c = newTestCache(t)
	}

	return NewAnalysisService(DiscoveryConfig{DefaultRubric: "balanced"}, p, c, repo, zap.NewNop())
}

func TestScoreChannel_FetchesAndCaches(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})
	p.channels["UC1"] = testChannel("UC1", 400_000, "US")
	p.uploads["PLUC1"] = []domain.UploadStat{
		{PublishedAt: time.Now().UTC().AddDate(0, 0, -20), Views: 100_000, Likes: 4_000, Comments: 500},
		{PublishedAt: time.Now().UTC().AddDate(0, 0, -10), Views: 120_000, Likes: 5_000, Comments: 600},
	}

	svc := newAnalysisService(t, p, nil, nil)

	first, err := svc.ScoreChannel(context.Background(), "UC1", "")
	require.NoError(t, err)
	assert.Equal(t, "UC1", first.Metrics.ID)
	assert.Equal(t, "balanced", first.Score.Rubric)
	assert.False(t, first.Metrics.EstimatedEngagement, "upload samples yield a measured rate")

	second, err := svc.ScoreChannel(context.Background(), "UC1", "")
	require.NoError(t, err)
	assert.Equal(t, first.Score.Score, second.Score.Score)
	assert.Equal(t, 1, p.detailCalls["UC1"], "second call served from cache")

	stats := svc.CacheStats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestScoreChannel_NotFound(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})

	svc := newAnalysisService(t, p, nil, nil)
	analysis, err := svc.ScoreChannel(context.Background(), "UCmissing", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChannelNotFound)
	assert.Nil(t, analysis)
}

func TestScoreChannel_RubricMismatchRescoresCached(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})
	p.channels["UC1"] = testChannel("UC1", 400_000, "US")

	svc := newAnalysisService(t, p, nil, nil)

	_, err := svc.ScoreChannel(context.Background(), "UC1", "balanced")
	require.NoError(t, err)

	classic, err := svc.ScoreChannel(context.Background(), "UC1", "classic")
	require.NoError(t, err)
	assert.Equal(t, "classic", classic.Score.Rubric)
	assert.Equal(t, 1, p.detailCalls["UC1"], "rubric switch must not re-fetch")
}

func TestClearCache_ResetsStats(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})
	p.channels["UC1"] = testChannel("UC1", 400_000, "US")

	svc := newAnalysisService(t, p, nil, nil)

	_, err := svc.ScoreChannel(context.Background(), "UC1", "")
	require.NoError(t, err)
	require.NoError(t, svc.ClearCache(context.Background()))

	stats := svc.CacheStats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.Size)
}

func TestRefreshLeads_UpdatesMetricsAndScore(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})
	p.channels["UC1"] = testChannel("UC1", 900_000, "US")
	p.channels["UC2"] = testChannel("UC2", 60_000, "US")

	staleMetrics := func(id string) domain.ChannelMetrics {
		return domain.ChannelMetrics{ID: id, SubscriberCount: 1_000, AgeInMonths: 12}
	}
	repo := &memLeadRepo{leads: []*domain.Lead{
		{Metrics: staleMetrics("UC1"), Score: domain.ScoreResult{Score: 10, Rubric: "balanced"}},
		{Metrics: staleMetrics("UC2"), Score: domain.ScoreResult{Score: 5, Rubric: "classic"}},
	}}

	svc := newAnalysisService(t, p, nil, repo)
	refreshed, err := svc.RefreshLeads(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, refreshed)
	assert.ElementsMatch(t, []string{"UC1", "UC2"}, repo.upserted)
	assert.Equal(t, int64(900_000), repo.leads[0].Metrics.SubscriberCount)
	assert.Equal(t, "classic", repo.leads[1].Score.Rubric, "refresh keeps each lead's rubric")
	assert.Greater(t, repo.leads[0].Score.Score, 10)
}

func TestRefreshLeads_SkipsVanishedChannels(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})
	p.channels["UC1"] = testChannel("UC1", 900_000, "US")
	p.detailErr["UC2"] = errors.New("backendError")

	repo := &memLeadRepo{leads: []*domain.Lead{
		{Metrics: domain.ChannelMetrics{ID: "UC1"}, Score: domain.ScoreResult{Rubric: "balanced"}},
		{Metrics: domain.ChannelMetrics{ID: "UC2"}, Score: domain.ScoreResult{Rubric: "balanced"}},
	}}

	svc := newAnalysisService(t, p, nil, repo)
	refreshed, err := svc.RefreshLeads(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, refreshed)
	assert.Equal(t, []string{"UC1"}, repo.upserted)
}

func TestRefreshLeads_NilRepository(t *testing.T) {
	p := newFakeProvider(domain.SearchPage{})

	svc := newAnalysisService(t, p, nil, nil)
	refreshed, err := svc.RefreshLeads(context.Background())

	require.NoError(t, err)
	assert.Zero(t, refreshed)
}
