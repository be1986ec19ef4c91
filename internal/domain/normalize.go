package domain

import (
	"hash/fnv"
	"math"
	"time"
)

const daysPerMonth = 30

// View-ratio buckets used to estimate an engagement rate when no per-video
// like/comment samples are available. These are heuristic estimates, not
// measurements; the resulting metrics carry EstimatedEngagement = true.
var viewRatioEngagementBuckets = []struct {
	MinRatio float64
	Rate     float64
}{
	{2.0, 8.0},
	{1.0, 6.0},
	{0.5, 4.5},
	{0.2, 3.0},
	{0.05, 1.5},
	{0, 0.5},
}

// Normalizer converts raw provider records into canonical ChannelMetrics.
//
// Now is injected so derived fields are deterministic in tests. When
// HashEstimates is set and no upload samples exist, the engagement estimate
// is seeded from a hash of the channel identifier instead of the view-ratio
// bucket table; this reproduces the legacy pseudo-metric behavior and is
// never blended with real measurements.
type Normalizer struct {
	Now           func() time.Time
	HashEstimates bool
}

// NewNormalizer creates a Normalizer with the given clock.
// A nil clock defaults to time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}

	return &Normalizer{Now: now}
}

// Normalize builds ChannelMetrics from a raw channel record and an optional
// sample of recent uploads. It is a pure function of its inputs and the
// injected clock: no field is ever negative, NaN or infinite, and every
// zero-denominator case has a defined fallback.
func (n *Normalizer) Normalize(raw RawChannel, uploads []UploadStat) ChannelMetrics {
	now := n.Now()

	m := ChannelMetrics{
		ID:              raw.ID,
		Title:           raw.Title,
		Description:     raw.Description,
		Country:         raw.Country,
		Language:        raw.Language,
		SubscriberCount: clampCount(raw.SubscriberCount),
		TotalViewCount:  clampCount(raw.ViewCount),
		VideoCount:      clampCount(raw.VideoCount),
	}

	m.AgeInMonths = ageInMonths(raw.CreatedAt, now)
	m.UploadsPerMonth = n.uploadsPerMonth(m, uploads)
	m.EngagementRate, m.EstimatedEngagement = n.engagementRate(m, uploads)

	return m
}

// ageInMonths returns channel age with a floor of 1 month, which keeps
// later per-month divisions from blowing up on freshly created accounts.
func ageInMonths(createdAt, now time.Time) float64 {
	if createdAt.IsZero() || !createdAt.Before(now) {
		return 1
	}

	months := now.Sub(createdAt).Hours() / 24 / daysPerMonth

	return math.Max(1, months)
}

// uploadsPerMonth prefers the observed cadence of the recent-uploads sample
// (at least 2 timestamps) and falls back to lifetime videoCount / age.
func (n *Normalizer) uploadsPerMonth(m ChannelMetrics, uploads []UploadStat) float64 {
	if len(uploads) >= 2 {
		oldest, newest := uploads[0].PublishedAt, uploads[0].PublishedAt
		for _, u := range uploads[1:] {
			if u.PublishedAt.Before(oldest) {
				oldest = u.PublishedAt
			}
			if u.PublishedAt.After(newest) {
				newest = u.PublishedAt
			}
		}

		spanDays := math.Max(1, newest.Sub(oldest).Hours()/24)

		return float64(len(uploads)) / (spanDays / daysPerMonth)
	}

	return float64(m.VideoCount) / m.AgeInMonths
}

// engagementRate measures (avgLikes+avgComments)/avgViews when the sample
// carries interaction counts; otherwise it estimates from the view ratio,
// or from a hash of the identifier when HashEstimates is set.
// The second return value reports whether the rate is an estimate.
func (n *Normalizer) engagementRate(m ChannelMetrics, uploads []UploadStat) (float64, bool) {
	var views, likes, comments int64
	sampled := 0
	for _, u := range uploads {
		if u.Views <= 0 {
			continue
		}
		views += u.Views
		likes += clampCount(u.Likes)
		comments += clampCount(u.Comments)
		sampled++
	}

	if sampled > 0 && views > 0 {
		avgViews := float64(views) / float64(sampled)
		avgInteractions := float64(likes+comments) / float64(sampled)

		return avgInteractions / avgViews * 100, false
	}

	if n.HashEstimates {
		return hashSeededRate(m.ID), true
	}

	ratio := m.ViewRatio()
	for _, b := range viewRatioEngagementBuckets {
		if ratio >= b.MinRatio {
			return b.Rate, true
		}
	}

	return 0, true
}

// hashSeededRate maps an FNV-1a hash of the channel id into the 1.0–9.0
// range. Deterministic per id; used only as an explicitly flagged estimate.
func hashSeededRate(id string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	return 1.0 + float64(h.Sum32()%801)/100
}

func clampCount(v int64) int64 {
	if v < 0 {
		return 0
	}

	return v
}
