// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"time"
)

// Candidate is a channel surfaced by a search page. It carries only the
// identifier and snippet fields; everything else requires a detail fetch.
type Candidate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// RawChannel is the provider's view of a channel before normalization.
// Counts are already coerced to integers by the provider client; missing
// or malformed values arrive as 0.
type RawChannel struct {
	ID              string
	Title           string
	Description     string
	Country         string
	Language        string
	SubscriberCount int64
	ViewCount       int64
	VideoCount      int64
	CreatedAt       time.Time
	UploadsRef      string // provider reference to the channel's uploads collection
}

// UploadStat is a single recent upload used to refine derived metrics.
type UploadStat struct {
	PublishedAt time.Time
	Views       int64
	Likes       int64
	Comments    int64
}

// ChannelMetrics is the canonical normalized record for a channel.
// Derived fields are pure functions of the raw inputs plus a reference
// "now"; none of them may be negative or non-finite.
type ChannelMetrics struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	SubscriberCount int64   `json:"subscriber_count"`
	TotalViewCount  int64   `json:"total_view_count"`
	VideoCount      int64   `json:"video_count"`
	UploadsPerMonth float64 `json:"uploads_per_month"`
	EngagementRate  float64 `json:"engagement_rate"` // percentage
	AgeInMonths     float64 `json:"age_in_months"`   // floored at 1
	Country         string  `json:"country,omitempty"`
	Language        string  `json:"language,omitempty"`
	Description     string  `json:"description,omitempty"`

	// EstimatedEngagement marks EngagementRate as a heuristic (view-ratio
	// bucket or hash-seeded fallback) rather than a measurement.
	EstimatedEngagement bool `json:"estimated_engagement,omitempty"`
}

// AvgViewsPerVideo returns the mean view count per upload.
// Returns 0 for channels with no uploads.
func (m *ChannelMetrics) AvgViewsPerVideo() float64 {
	if m.VideoCount == 0 {
		return 0
	}

	return float64(m.TotalViewCount) / float64(m.VideoCount)
}

// ViewRatio returns average views per video relative to subscriber count.
// Returns 0 for channels with no subscribers.
func (m *ChannelMetrics) ViewRatio() float64 {
	if m.SubscriberCount == 0 {
		return 0
	}

	return m.AvgViewsPerVideo() / float64(m.SubscriberCount)
}

// SubscribersPerMonth is the monthly growth proxy: lifetime subscribers
// averaged over channel age. AgeInMonths is floored at 1 by the normalizer,
// so the division is always defined.
func (m *ChannelMetrics) SubscribersPerMonth() float64 {
	if m.AgeInMonths < 1 {
		return float64(m.SubscriberCount)
	}

	return float64(m.SubscriberCount) / m.AgeInMonths
}

// Analysis bundles the normalized metrics with their score. It is the unit
// stored in the analysis cache and returned by the scoring API.
type Analysis struct {
	Metrics ChannelMetrics `json:"metrics"`
	Score   ScoreResult    `json:"score"`
}
