package dto

import (
	"time"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/cache"
	"channel-prospector/internal/domain"
)

// ProspectResponse is a single evaluated channel in API responses.
type ProspectResponse struct {
	ChannelID       string   `json:"channel_id"`
	Title           string   `json:"title"`
	SubscriberCount int64    `json:"subscriber_count"`
	TotalViewCount  int64    `json:"total_view_count"`
	VideoCount      int64    `json:"video_count"`
	UploadsPerMonth float64  `json:"uploads_per_month"`
	EngagementRate  float64  `json:"engagement_rate"`
	Estimated       bool     `json:"engagement_estimated,omitempty"`
	Country         string   `json:"country,omitempty"`
	Language        string   `json:"language,omitempty"`
	Score           int      `json:"score"`
	Classification  string   `json:"classification"`
	Rubric          string   `json:"rubric"`
	Approved        bool     `json:"approved"`
	Reasons         []string `json:"reasons"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	Topic           string   `json:"topic,omitempty"`
	DiscoveredAt    string   `json:"discovered_at,omitempty"`
}

// FromLead converts a domain lead into its response shape.
func FromLead(lead *domain.Lead) ProspectResponse {
	resp := ProspectResponse{
		ChannelID:       lead.Metrics.ID,
		Title:           lead.Metrics.Title,
		SubscriberCount: lead.Metrics.SubscriberCount,
		TotalViewCount:  lead.Metrics.TotalViewCount,
		VideoCount:      lead.Metrics.VideoCount,
		UploadsPerMonth: lead.Metrics.UploadsPerMonth,
		EngagementRate:  lead.Metrics.EngagementRate,
		Estimated:       lead.Metrics.EstimatedEngagement,
		Country:         lead.Metrics.Country,
		Language:        lead.Metrics.Language,
		Score:           lead.Score.Score,
		Classification:  string(lead.Score.Classification),
		Rubric:          lead.Score.Rubric,
		Approved:        lead.Verdict.Approved,
		Reasons:         lead.Verdict.Reasons,
		MatchedKeywords: lead.Verdict.MatchedKeywords,
		Topic:           lead.Topic,
	}
	if !lead.DiscoveredAt.IsZero() {
		resp.DiscoveredAt = lead.DiscoveredAt.Format(time.RFC3339)
	}

	return resp
}

// DiscoveryResponse is the body returned by POST /api/v1/discovery.
type DiscoveryResponse struct {
	Prospects []ProspectResponse `json:"prospects"`
	Summary   DiscoverySummary   `json:"summary"`
}

// DiscoverySummary reports run accounting.
type DiscoverySummary struct {
	Pages      int    `json:"pages"`
	Unique     int    `json:"unique_candidates"`
	Retained   int    `json:"retained"`
	Qualifying int    `json:"qualifying"`
	Cancelled  bool   `json:"cancelled,omitempty"`
	Duration   string `json:"duration"`
}

// FromDiscoveryResult converts a discovery run result.
func FromDiscoveryResult(result *service.DiscoveryResult) DiscoveryResponse {
	prospects := make([]ProspectResponse, len(result.Prospects))
	for i, lead := range result.Prospects {
		prospects[i] = FromLead(lead)
	}

	return DiscoveryResponse{
		Prospects: prospects,
		Summary: DiscoverySummary{
			Pages:      result.Pages,
			Unique:     result.Unique,
			Retained:   len(result.Prospects),
			Qualifying: result.Qualifying,
			Cancelled:  result.Cancelled,
			Duration:   result.Duration.String(),
		},
	}
}

// AnalysisResponse is the body returned by GET /api/v1/channels/:id/score.
type AnalysisResponse struct {
	Metrics domain.ChannelMetrics `json:"metrics"`
	Score   domain.ScoreResult    `json:"score"`
}

// FromAnalysis converts a domain analysis.
func FromAnalysis(a *domain.Analysis) AnalysisResponse {
	return AnalysisResponse{Metrics: a.Metrics, Score: a.Score}
}

// CacheStatsResponse is the body returned by GET /api/v1/cache/stats.
type CacheStatsResponse struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
	Size     int     `json:"size"`
	Degraded bool    `json:"degraded,omitempty"`
}

// FromCacheStats converts cache statistics.
func FromCacheStats(s cache.Stats) CacheStatsResponse {
	return CacheStatsResponse{
		Hits:     s.Hits,
		Misses:   s.Misses,
		HitRate:  s.HitRate,
		Size:     s.Size,
		Degraded: s.Degraded,
	}
}

// LeadListResponse is the body returned by GET /api/v1/leads.
type LeadListResponse struct {
	Leads      []ProspectResponse `json:"leads"`
	Pagination PaginationMeta     `json:"pagination"`
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// FromLeadList converts a paginated lead listing.
func FromLeadList(list *domain.LeadList) LeadListResponse {
	leads := make([]ProspectResponse, len(list.Leads))
	for i, lead := range list.Leads {
		leads[i] = FromLead(lead)
	}

	return LeadListResponse{
		Leads: leads,
		Pagination: PaginationMeta{
			Total:      list.Total,
			Page:       list.Page,
			PageSize:   list.PageSize,
			TotalPages: list.TotalPages,
		},
	}
}

// RefreshResponse is the body returned by POST /api/v1/admin/refresh.
type RefreshResponse struct {
	Refreshed int `json:"refreshed"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
