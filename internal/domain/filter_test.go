package domain

import (
	"strings"
	"testing"
)

func TestEvaluate_Approved(t *testing.T) {
	metrics := ChannelMetrics{
		ID:              "UCgood",
		Title:           "Workshop Woodcraft",
		Description:     "Weekly woodworking builds and shop tours",
		SubscriberCount: 750_000,
		TotalViewCount:  200_000_000,
		VideoCount:      1_200,
		UploadsPerMonth: 20,
		EngagementRate:  6.0,
		Country:         "US",
		Language:        "en",
	}

	criteria := FilterCriteria{
		MinSubscribers:     100_000,
		MinEngagementRate:  1.0,
		MinUploadsPerMonth: 1,
	}

	verdict := Evaluate(&metrics, criteria)
	if !verdict.Approved {
		t.Fatalf("expected approval, got reasons %v", verdict.Reasons)
	}
	if len(verdict.Reasons) != 0 {
		t.Errorf("approved verdict carries reasons: %v", verdict.Reasons)
	}
}

// TestEvaluate_AllChecksRun verifies one reason per failing threshold; the
// evaluator never short-circuits on the first miss.
func TestEvaluate_AllChecksRun(t *testing.T) {
	metrics := ChannelMetrics{
		ID:              "UCsmall",
		Title:           "Tiny Channel",
		SubscriberCount: 500,
		TotalViewCount:  10_000,
		UploadsPerMonth: 0.5,
		EngagementRate:  0.2,
		Country:         "DE",
		Language:        "de",
	}

	criteria := FilterCriteria{
		MinSubscribers:     10_000,
		MinTotalViews:      1_000_000,
		MinEngagementRate:  1.0,
		MinUploadsPerMonth: 2,
		Country:            "US",
		Language:           "en",
	}

	verdict := Evaluate(&metrics, criteria)
	if verdict.Approved {
		t.Fatal("expected rejection")
	}
	if len(verdict.Reasons) != 6 {
		t.Fatalf("expected 6 reasons, got %d: %v", len(verdict.Reasons), verdict.Reasons)
	}

	// Each reason names the actual and the required value.
	if !strings.Contains(verdict.Reasons[0], "500") || !strings.Contains(verdict.Reasons[0], "10000") {
		t.Errorf("subscriber reason missing actual/required values: %q", verdict.Reasons[0])
	}
}

func TestEvaluate_ZeroThresholdsSkipChecks(t *testing.T) {
	metrics := ChannelMetrics{ID: "UCany"}

	verdict := Evaluate(&metrics, FilterCriteria{})
	if !verdict.Approved {
		t.Errorf("empty criteria should approve anything, got %v", verdict.Reasons)
	}
}

func TestEvaluate_Keywords(t *testing.T) {
	metrics := ChannelMetrics{
		ID:          "UCkw",
		Title:       "The Home Barista",
		Description: "Espresso gear reviews and LATTE art tutorials",
	}

	tests := []struct {
		name            string
		keywords        []string
		expectApproved  bool
		expectedMatches []string
	}{
		{
			name:            "case-insensitive substring match",
			keywords:        []string{"espresso", "latte", "pour-over"},
			expectApproved:  true,
			expectedMatches: []string{"espresso", "latte"},
		},
		{
			name:            "no keyword matches",
			keywords:        []string{"gardening", "diy"},
			expectApproved:  false,
			expectedMatches: []string{},
		},
		{
			name:            "match in title",
			keywords:        []string{"BARISTA"},
			expectApproved:  true,
			expectedMatches: []string{"BARISTA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Evaluate(&metrics, FilterCriteria{Keywords: tt.keywords})
			if verdict.Approved != tt.expectApproved {
				t.Errorf("Approved = %v, want %v (reasons %v)", verdict.Approved, tt.expectApproved, verdict.Reasons)
			}
			if len(verdict.MatchedKeywords) != len(tt.expectedMatches) {
				t.Errorf("MatchedKeywords = %v, want %v", verdict.MatchedKeywords, tt.expectedMatches)
			}
		})
	}
}

func TestEvaluate_LocaleNormalization(t *testing.T) {
	metrics := ChannelMetrics{
		ID:       "UClocale",
		Country:  "us",
		Language: "en-US",
	}

	verdict := Evaluate(&metrics, FilterCriteria{Country: "US", Language: "EN"})
	if !verdict.Approved {
		t.Errorf("locale variants should match two-letter codes, got %v", verdict.Reasons)
	}
}

// TestEvaluate_Deterministic: fixed metrics and criteria always produce the
// same verdict, reason order included.
func TestEvaluate_Deterministic(t *testing.T) {
	metrics := ChannelMetrics{
		ID:              "UCfixed",
		SubscriberCount: 100,
		EngagementRate:  0.1,
	}
	criteria := FilterCriteria{MinSubscribers: 1_000, MinEngagementRate: 2}

	first := Evaluate(&metrics, criteria)
	for i := 0; i < 10; i++ {
		again := Evaluate(&metrics, criteria)
		if len(again.Reasons) != len(first.Reasons) {
			t.Fatalf("reason count changed across calls")
		}
		for j := range again.Reasons {
			if again.Reasons[j] != first.Reasons[j] {
				t.Fatalf("reason order changed: %v vs %v", first.Reasons, again.Reasons)
			}
		}
	}
}
