package domain

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestNormalize_AgeFloor(t *testing.T) {
	n := NewNormalizer(fixedClock)

	tests := []struct {
		name      string
		createdAt time.Time
		expected  float64
	}{
		{"zero timestamp", time.Time{}, 1},
		{"created today", testNow, 1},
		{"created in the future", testNow.AddDate(0, 0, 10), 1},
		{"two weeks old", testNow.AddDate(0, 0, -14), 1},
		{"one year old", testNow.AddDate(0, 0, -365), 365.0 / 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := n.Normalize(RawChannel{ID: "c1", CreatedAt: tt.createdAt}, nil)
			if math.Abs(m.AgeInMonths-tt.expected) > 1e-9 {
				t.Errorf("AgeInMonths = %v, want %v", m.AgeInMonths, tt.expected)
			}
		})
	}
}

func TestNormalize_UploadsPerMonth_FromSample(t *testing.T) {
	n := NewNormalizer(fixedClock)

	// 10 uploads spread over 60 days: 10 / (60/30) = 5 per month.
	uploads := make([]UploadStat, 10)
	for i := range uploads {
		uploads[i] = UploadStat{PublishedAt: testNow.AddDate(0, 0, -60*i/9)}
	}

	m := n.Normalize(RawChannel{ID: "c1", VideoCount: 999, CreatedAt: testNow.AddDate(-5, 0, 0)}, uploads)
	if math.Abs(m.UploadsPerMonth-5) > 1e-9 {
		t.Errorf("UploadsPerMonth = %v, want 5", m.UploadsPerMonth)
	}
}

func TestNormalize_UploadsPerMonth_SampleSpanFloor(t *testing.T) {
	n := NewNormalizer(fixedClock)

	// All sample timestamps identical: span floors at 1 day instead of
	// dividing by zero.
	uploads := []UploadStat{
		{PublishedAt: testNow},
		{PublishedAt: testNow},
		{PublishedAt: testNow},
	}

	m := n.Normalize(RawChannel{ID: "c1"}, uploads)
	if math.IsInf(m.UploadsPerMonth, 0) || math.IsNaN(m.UploadsPerMonth) {
		t.Fatalf("UploadsPerMonth is not finite: %v", m.UploadsPerMonth)
	}
	if math.Abs(m.UploadsPerMonth-90) > 1e-9 { // 3 / (1/30)
		t.Errorf("UploadsPerMonth = %v, want 90", m.UploadsPerMonth)
	}
}

func TestNormalize_UploadsPerMonth_Fallback(t *testing.T) {
	n := NewNormalizer(fixedClock)

	// No sample: lifetime videoCount / ageInMonths.
	m := n.Normalize(RawChannel{
		ID:         "c1",
		VideoCount: 120,
		CreatedAt:  testNow.AddDate(0, 0, -300), // 10 months
	}, nil)

	if math.Abs(m.UploadsPerMonth-12) > 1e-9 {
		t.Errorf("UploadsPerMonth = %v, want 12", m.UploadsPerMonth)
	}
}

func TestNormalize_EngagementRate_Measured(t *testing.T) {
	n := NewNormalizer(fixedClock)

	uploads := []UploadStat{
		{PublishedAt: testNow, Views: 10_000, Likes: 400, Comments: 100},
		{PublishedAt: testNow.AddDate(0, 0, -7), Views: 10_000, Likes: 400, Comments: 100},
	}

	m := n.Normalize(RawChannel{ID: "c1"}, uploads)
	// (avg 500 interactions / avg 10000 views) * 100 = 5%
	if math.Abs(m.EngagementRate-5) > 1e-9 {
		t.Errorf("EngagementRate = %v, want 5", m.EngagementRate)
	}
	if m.EstimatedEngagement {
		t.Error("measured engagement flagged as estimate")
	}
}

func TestNormalize_EngagementRate_ViewRatioEstimate(t *testing.T) {
	n := NewNormalizer(fixedClock)

	// avg views/video = 100000, subscribers = 50000, ratio = 2 → top bucket.
	m := n.Normalize(RawChannel{
		ID:              "c1",
		SubscriberCount: 50_000,
		ViewCount:       10_000_000,
		VideoCount:      100,
	}, nil)

	if math.Abs(m.EngagementRate-8) > 1e-9 {
		t.Errorf("EngagementRate = %v, want 8", m.EngagementRate)
	}
	if !m.EstimatedEngagement {
		t.Error("bucketed engagement not flagged as estimate")
	}
}

func TestNormalize_EngagementRate_HashSeeded(t *testing.T) {
	n := NewNormalizer(fixedClock)
	n.HashEstimates = true

	first := n.Normalize(RawChannel{ID: "UCabc123"}, nil)
	second := n.Normalize(RawChannel{ID: "UCabc123"}, nil)

	if first.EngagementRate != second.EngagementRate {
		t.Errorf("hash-seeded rate not deterministic: %v vs %v", first.EngagementRate, second.EngagementRate)
	}
	if first.EngagementRate < 1.0 || first.EngagementRate > 9.0 {
		t.Errorf("hash-seeded rate %v outside [1, 9]", first.EngagementRate)
	}
	if !first.EstimatedEngagement {
		t.Error("hash-seeded engagement not flagged as estimate")
	}
}

// TestNormalize_NeverNegativeOrNaN covers the data-quality contract: any raw
// input, including all-zero and negative garbage, yields finite non-negative
// metrics.
func TestNormalize_NeverNegativeOrNaN(t *testing.T) {
	n := NewNormalizer(fixedClock)

	raws := []RawChannel{
		{},
		{ID: "c1"},
		{ID: "c2", SubscriberCount: -5, ViewCount: -100, VideoCount: -1},
		{ID: "c3", SubscriberCount: 0, ViewCount: 999, VideoCount: 0, CreatedAt: testNow},
	}
	samples := [][]UploadStat{
		nil,
		{},
		{{PublishedAt: testNow, Views: 0, Likes: -3, Comments: -1}},
		{{PublishedAt: testNow, Views: -10}, {PublishedAt: testNow, Views: -10}},
	}

	for _, raw := range raws {
		for _, uploads := range samples {
			m := n.Normalize(raw, uploads)

			for name, v := range map[string]float64{
				"UploadsPerMonth": m.UploadsPerMonth,
				"EngagementRate":  m.EngagementRate,
				"AgeInMonths":     m.AgeInMonths,
			} {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
					t.Errorf("%s = %v for raw %+v", name, v, raw)
				}
			}
			if m.AgeInMonths < 1 {
				t.Errorf("AgeInMonths = %v, want >= 1", m.AgeInMonths)
			}
			if m.SubscriberCount < 0 || m.TotalViewCount < 0 || m.VideoCount < 0 {
				t.Errorf("negative count survived normalization: %+v", m)
			}
		}
	}
}
