package domain

import (
	"fmt"
	"strings"
)

// FilterCriteria holds caller-supplied partnership thresholds. Numeric
// thresholds default to 0, which disables the corresponding check; empty
// country/language/keywords skip those checks entirely.
type FilterCriteria struct {
	MinSubscribers     int64    `json:"min_subscribers"`
	MinTotalViews      int64    `json:"min_total_views"`
	MinEngagementRate  float64  `json:"min_engagement_rate"`
	MinUploadsPerMonth float64  `json:"min_uploads_per_month"`
	Country            string   `json:"country,omitempty"`  // two-letter code
	Language           string   `json:"language,omitempty"` // two-letter code
	Keywords           []string `json:"keywords,omitempty"`
}

// ApprovalVerdict is the outcome of filter evaluation. Reasons is empty iff
// Approved. MatchedKeywords is a side artifact for display and is populated
// whenever keyword criteria are supplied, regardless of the verdict.
type ApprovalVerdict struct {
	Approved        bool     `json:"approved"`
	Reasons         []string `json:"reasons"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// Evaluate checks every criterion independently and collects one reason per
// failing check, so a caller sees the full distance to approval rather than
// just the first miss.
func Evaluate(m *ChannelMetrics, criteria FilterCriteria) ApprovalVerdict {
	verdict := ApprovalVerdict{Approved: true, Reasons: []string{}}

	fail := func(reason string) {
		verdict.Approved = false
		verdict.Reasons = append(verdict.Reasons, reason)
	}

	if criteria.MinSubscribers > 0 && m.SubscriberCount < criteria.MinSubscribers {
		fail(fmt.Sprintf("subscribers %d below required %d", m.SubscriberCount, criteria.MinSubscribers))
	}

	if criteria.MinTotalViews > 0 && m.TotalViewCount < criteria.MinTotalViews {
		fail(fmt.Sprintf("total views %d below required %d", m.TotalViewCount, criteria.MinTotalViews))
	}

	if criteria.MinEngagementRate > 0 && m.EngagementRate < criteria.MinEngagementRate {
		fail(fmt.Sprintf("engagement rate %.2f%% below required %.2f%%", m.EngagementRate, criteria.MinEngagementRate))
	}

	if criteria.MinUploadsPerMonth > 0 && m.UploadsPerMonth < criteria.MinUploadsPerMonth {
		fail(fmt.Sprintf("uploads per month %.1f below required %.1f", m.UploadsPerMonth, criteria.MinUploadsPerMonth))
	}

	if criteria.Country != "" && !strings.EqualFold(normalizeCode(m.Country), normalizeCode(criteria.Country)) {
		fail(fmt.Sprintf("country %q does not match required %q", m.Country, criteria.Country))
	}

	if criteria.Language != "" && !strings.EqualFold(normalizeCode(m.Language), normalizeCode(criteria.Language)) {
		fail(fmt.Sprintf("language %q does not match required %q", m.Language, criteria.Language))
	}

	if len(criteria.Keywords) > 0 {
		verdict.MatchedKeywords = MatchKeywords(m, criteria.Keywords)
		if len(verdict.MatchedKeywords) == 0 {
			fail(fmt.Sprintf("none of the keywords %v found in title or description", criteria.Keywords))
		}
	}

	return verdict
}

// MatchKeywords returns the subset of keywords found case-insensitively as
// substrings of the channel's combined title and description.
func MatchKeywords(m *ChannelMetrics, keywords []string) []string {
	haystack := strings.ToLower(m.Title + " " + m.Description)

	matched := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		trimmed := strings.TrimSpace(kw)
		if trimmed == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(trimmed)) {
			matched = append(matched, kw)
		}
	}

	return matched
}

// normalizeCode reduces a country/language value to its two-letter code.
// Provider responses occasionally carry regional variants ("en-US").
func normalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}

	return code
}
