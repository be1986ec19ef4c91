// Package dto defines the HTTP request and response shapes for the API.
package dto

import (
	"channel-prospector/internal/app/service"
	"channel-prospector/internal/domain"
)

// DiscoveryRequest is the body of POST /api/v1/discovery.
type DiscoveryRequest struct {
	Topic    string `json:"topic" validate:"required,min=2,max=200"`
	Country  string `json:"country" validate:"omitempty,iso2"`
	Language string `json:"language" validate:"omitempty,iso2"`
	Rubric   string `json:"rubric" validate:"omitempty,oneof=balanced classic"`

	MinSubscribers     int64    `json:"min_subscribers" validate:"min=0"`
	MinTotalViews      int64    `json:"min_total_views" validate:"min=0"`
	MinEngagementRate  float64  `json:"min_engagement_rate" validate:"min=0,max=100"`
	MinUploadsPerMonth float64  `json:"min_uploads_per_month" validate:"min=0"`
	Keywords           []string `json:"keywords" validate:"max=20,dive,min=1,max=100"`

	MaxUniqueCandidates int `json:"max_unique_candidates" validate:"min=0,max=500"`
	MaxQualifying       int `json:"max_qualifying" validate:"min=0,max=100"`
	PageSize            int `json:"page_size" validate:"min=0,max=50"`
	UploadSample        int `json:"upload_sample" validate:"min=0,max=50"`

	Persist bool `json:"persist"`
}

// ToServiceRequest converts the request into the discovery service input.
func (r *DiscoveryRequest) ToServiceRequest() service.DiscoveryRequest {
	return service.DiscoveryRequest{
		Topic:    r.Topic,
		Country:  r.Country,
		Language: r.Language,
		Rubric:   r.Rubric,
		Criteria: domain.FilterCriteria{
			MinSubscribers:     r.MinSubscribers,
			MinTotalViews:      r.MinTotalViews,
			MinEngagementRate:  r.MinEngagementRate,
			MinUploadsPerMonth: r.MinUploadsPerMonth,
			Country:            r.Country,
			Language:           r.Language,
			Keywords:           r.Keywords,
		},
		MaxUniqueCandidates: r.MaxUniqueCandidates,
		MaxQualifying:       r.MaxQualifying,
		PageSize:            r.PageSize,
		UploadSample:        r.UploadSample,
		Persist:             r.Persist,
	}
}

// ScoreRequest carries the query parameters of GET /api/v1/channels/:id/score.
type ScoreRequest struct {
	Rubric string `query:"rubric" validate:"omitempty,oneof=balanced classic"`
}

// LeadListRequest carries the query parameters of GET /api/v1/leads.
type LeadListRequest struct {
	Approved *bool `query:"approved"`
	MinScore int   `query:"min_score" validate:"min=0,max=100"`
	Page     int   `query:"page" validate:"min=0"`
	PageSize int   `query:"page_size" validate:"min=0,max=100"`
}

// ToListParams converts the request into repository list parameters.
func (r *LeadListRequest) ToListParams() domain.LeadListParams {
	params := domain.LeadListParams{
		Approved: r.Approved,
		MinScore: r.MinScore,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	params.Validate()

	return params
}
