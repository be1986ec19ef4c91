package postgres

import (
	"time"

	"github.com/lib/pq"

	"channel-prospector/internal/domain"
)

// LeadModel is the GORM model for the leads table. The score breakdown is
// not persisted; it is recomputable from the stored metrics and rubric name.
type LeadModel struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChannelID string `gorm:"type:varchar(100);not null;uniqueIndex:uq_leads_channel"`
	Title     string `gorm:"type:varchar(500);not null"`

	// Normalized metrics
	SubscriberCount     int64   `gorm:"default:0"`
	TotalViewCount      int64   `gorm:"default:0"`
	VideoCount          int64   `gorm:"default:0"`
	UploadsPerMonth     float64 `gorm:"type:decimal(10,2);default:0"`
	EngagementRate      float64 `gorm:"type:decimal(6,2);default:0"`
	EngagementEstimated bool    `gorm:"default:false"`
	AgeInMonths         float64 `gorm:"type:decimal(8,2);default:1"`
	Country             string  `gorm:"type:varchar(8)"`
	Language            string  `gorm:"type:varchar(8)"`
	Description         string  `gorm:"type:text"`

	// Score
	Score          int    `gorm:"default:0;index"`
	Tier           int    `gorm:"default:3"`
	Classification string `gorm:"type:varchar(20)"`
	Rubric         string `gorm:"type:varchar(20)"`

	// Verdict
	Approved        bool           `gorm:"default:false;index"`
	Reasons         pq.StringArray `gorm:"type:text[]"`
	MatchedKeywords pq.StringArray `gorm:"type:text[]"`

	Topic        string    `gorm:"type:varchar(200)"`
	DiscoveredAt time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for LeadModel.
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts LeadModel to domain.Lead.
func (m *LeadModel) ToDomain() *domain.Lead {
	return &domain.Lead{
		ID: m.ID,
		Metrics: domain.ChannelMetrics{
			ID:                  m.ChannelID,
			Title:               m.Title,
			SubscriberCount:     m.SubscriberCount,
			TotalViewCount:      m.TotalViewCount,
			VideoCount:          m.VideoCount,
			UploadsPerMonth:     m.UploadsPerMonth,
			EngagementRate:      m.EngagementRate,
			EstimatedEngagement: m.EngagementEstimated,
			AgeInMonths:         m.AgeInMonths,
			Country:             m.Country,
			Language:            m.Language,
			Description:         m.Description,
		},
		Score: domain.ScoreResult{
			Score:          m.Score,
			Tier:           m.Tier,
			Classification: domain.Classification(m.Classification),
			Rubric:         m.Rubric,
		},
		Verdict: domain.ApprovalVerdict{
			Approved:        m.Approved,
			Reasons:         m.Reasons,
			MatchedKeywords: m.MatchedKeywords,
		},
		Topic:        m.Topic,
		DiscoveredAt: m.DiscoveredAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain creates a LeadModel from domain.Lead.
func FromDomain(l *domain.Lead) *LeadModel {
	return &LeadModel{
		ID:                  l.ID,
		ChannelID:           l.Metrics.ID,
		Title:               l.Metrics.Title,
		SubscriberCount:     l.Metrics.SubscriberCount,
		TotalViewCount:      l.Metrics.TotalViewCount,
		VideoCount:          l.Metrics.VideoCount,
		UploadsPerMonth:     l.Metrics.UploadsPerMonth,
		EngagementRate:      l.Metrics.EngagementRate,
		EngagementEstimated: l.Metrics.EstimatedEngagement,
		AgeInMonths:         l.Metrics.AgeInMonths,
		Country:             l.Metrics.Country,
		Language:            l.Metrics.Language,
		Description:         l.Metrics.Description,
		Score:               l.Score.Score,
		Tier:                l.Score.Tier,
		Classification:      string(l.Score.Classification),
		Rubric:              l.Score.Rubric,
		Approved:            l.Verdict.Approved,
		Reasons:             l.Verdict.Reasons,
		MatchedKeywords:     l.Verdict.MatchedKeywords,
		Topic:               l.Topic,
		DiscoveredAt:        l.DiscoveredAt,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// FromDomainSlice converts a slice of domain.Lead to LeadModels.
func FromDomainSlice(leads []*domain.Lead) []*LeadModel {
	models := make([]*LeadModel, len(leads))
	for i, l := range leads {
		models[i] = FromDomain(l)
	}

	return models
}
