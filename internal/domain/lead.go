package domain

import (
	"time"
)

// Lead is a persisted prospect: the evaluated result of one discovery hit.
type Lead struct {
	ID           string          `json:"id"` // internal UUID
	Metrics      ChannelMetrics  `json:"metrics"`
	Score        ScoreResult     `json:"score"`
	Verdict      ApprovalVerdict `json:"verdict"`
	Topic        string          `json:"topic,omitempty"` // search topic that surfaced the lead
	DiscoveredAt time.Time       `json:"discovered_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LeadListParams holds filter and pagination parameters for lead queries.
type LeadListParams struct {
	Approved *bool // nil = both
	MinScore int
	Page     int // 1-indexed
	PageSize int
}

// Validate clamps params into acceptable bounds. This is bound correction,
// not validation.
func (p *LeadListParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	if p.MinScore < 0 {
		p.MinScore = 0
	}
}

// Offset calculates the database offset for pagination.
func (p *LeadListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size (alias for clarity).
func (p *LeadListParams) Limit() int {
	return p.PageSize
}

// LeadList holds paginated lead results.
type LeadList struct {
	Leads      []*Lead `json:"leads"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// NewLeadList creates a LeadList with calculated pagination.
func NewLeadList(leads []*Lead, total int64, params LeadListParams) *LeadList {
	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &LeadList{
		Leads:      leads,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
}
