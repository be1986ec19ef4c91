package domain

import (
	"reflect"
	"testing"
)

func TestRubricBalanced_Score(t *testing.T) {
	rubric := RubricBalanced()

	tests := []struct {
		name     string
		metrics  ChannelMetrics
		expected int
	}{
		{
			name:     "empty metrics score zero",
			metrics:  ChannelMetrics{},
			expected: 0,
		},
		{
			name: "mid-size channel",
			metrics: ChannelMetrics{
				SubscriberCount: 120_000, // 16
				TotalViewCount:  60_000_000,
				VideoCount:      1_000, // avg 60k/video, ratio 0.5 → 15
				EngagementRate:  3.5,   // 15
				AgeInMonths:     48,    // 2500 subs/month → 15
			},
			expected: 61,
		},
		{
			name: "top-tier everywhere",
			metrics: ChannelMetrics{
				SubscriberCount: 2_000_000, // 25
				TotalViewCount:  800_000_000,
				VideoCount:      200,  // avg 4M/video, ratio 2 → 25
				EngagementRate:  9,    // 25
				AgeInMonths:     12,   // ~166k subs/month → 25
				UploadsPerMonth: 20,   // not a balanced factor
			},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rubric.Score(&tt.metrics)
			if result.Score != tt.expected {
				t.Errorf("Score = %d, want %d (breakdown %v)", result.Score, tt.expected, result.Breakdown)
			}
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("Score %d outside [0, 100]", result.Score)
			}
		})
	}
}

func TestRubricClassic_Score(t *testing.T) {
	rubric := RubricClassic()

	metrics := ChannelMetrics{
		SubscriberCount: 750_000,     // 12
		TotalViewCount:  200_000_000, // avg ~166k/video → 30
		VideoCount:      1_200,
		UploadsPerMonth: 20,  // 20
		EngagementRate:  6.0, // 20
		// AgeInMonths unset: growth proxy falls back to raw count → 10
	}

	result := rubric.Score(&metrics)
	if result.Score != 92 {
		t.Errorf("Score = %d, want 92 (breakdown %v)", result.Score, result.Breakdown)
	}
	if result.Classification != ClassificationHigh {
		t.Errorf("Classification = %s, want %s", result.Classification, ClassificationHigh)
	}
}

// TestRubric_Deterministic verifies the determinism requirement: repeated
// calls on fixed metrics are identical, breakdown included.
func TestRubric_Deterministic(t *testing.T) {
	metrics := ChannelMetrics{
		ID:              "UCdeterministic",
		SubscriberCount: 42_000,
		TotalViewCount:  9_000_000,
		VideoCount:      300,
		UploadsPerMonth: 6,
		EngagementRate:  2.2,
		AgeInMonths:     30,
	}

	for _, rubric := range []*Rubric{RubricBalanced(), RubricClassic()} {
		first := rubric.Score(&metrics)
		for i := 0; i < 10; i++ {
			again := rubric.Score(&metrics)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("rubric %s not deterministic: %+v vs %+v", rubric.Name, first, again)
			}
		}
	}
}

func TestRubric_FactorMaximaSumTo100(t *testing.T) {
	for _, rubric := range []*Rubric{RubricBalanced(), RubricClassic()} {
		total := 0
		for _, f := range rubric.Factors {
			max := 0
			for _, tier := range f.Tiers {
				if tier.Points > max {
					max = tier.Points
				}
			}
			total += max
		}
		if total != 100 {
			t.Errorf("rubric %s maxima sum to %d, want 100", rubric.Name, total)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score    int
		tier     int
		expected Classification
	}{
		{100, 0, ClassificationHigh},
		{75, 0, ClassificationHigh},
		{74, 1, ClassificationMediumHigh},
		{50, 1, ClassificationMediumHigh},
		{49, 2, ClassificationMediumLow},
		{25, 2, ClassificationMediumLow},
		{24, 3, ClassificationLow},
		{0, 3, ClassificationLow},
	}

	for _, tt := range tests {
		tier, label := Classify(tt.score)
		if tier != tt.tier || label != tt.expected {
			t.Errorf("Classify(%d) = (%d, %s), want (%d, %s)", tt.score, tier, label, tt.tier, tt.expected)
		}
	}
}

func TestRubricByName(t *testing.T) {
	if RubricByName("classic").Name != "classic" {
		t.Error("classic preset not resolved")
	}
	if RubricByName("balanced").Name != "balanced" {
		t.Error("balanced preset not resolved")
	}
	if RubricByName("unknown").Name != "balanced" {
		t.Error("unknown rubric should fall back to balanced")
	}
}
