package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"channel-prospector/internal/domain"
)

// leadUpsertColumns are the columns refreshed when a lead is re-discovered
// or re-scored.
var leadUpsertColumns = []string{
	"title", "subscriber_count", "total_view_count", "video_count",
	"uploads_per_month", "engagement_rate", "engagement_estimated",
	"age_in_months", "country", "language", "description",
	"score", "tier", "classification", "rubric",
	"approved", "reasons", "matched_keywords",
	"topic", "discovered_at", "updated_at",
}

// Repository implements domain.LeadRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL lead repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates or updates a single lead keyed by channel id.
func (r *Repository) Upsert(ctx context.Context, lead *domain.Lead) error {
	model := FromDomain(lead)
	model.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns(leadUpsertColumns),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("upserting lead: %w", err)
	}

	lead.ID = model.ID
	lead.CreatedAt = model.CreatedAt
	lead.UpdatedAt = model.UpdatedAt

	return nil
}

// BulkUpsert creates or updates multiple leads in a batch.
func (r *Repository) BulkUpsert(ctx context.Context, leads []*domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	models := FromDomainSlice(leads)
	now := time.Now().UTC()
	for _, m := range models {
		m.UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.AssignmentColumns(leadUpsertColumns),
	}).CreateInBatches(models, 100).Error
	if err != nil {
		return fmt.Errorf("bulk upserting %d leads: %w", len(leads), err)
	}

	return nil
}

// GetByChannelID retrieves a lead by channel id; nil when absent.
func (r *Repository) GetByChannelID(ctx context.Context, channelID string) (*domain.Lead, error) {
	var model LeadModel
	err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting lead by channel id: %w", err)
	}

	return model.ToDomain(), nil
}

// List returns leads matching params, ordered approved-first and score
// descending within each group.
func (r *Repository) List(ctx context.Context, params domain.LeadListParams) (*domain.LeadList, error) {
	params.Validate()

	query := r.buildListQuery(params)

	var total int64
	if err := query.WithContext(ctx).Model(&LeadModel{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}

	var models []LeadModel
	err := query.WithContext(ctx).
		Order("approved DESC").
		Order("score DESC").
		Order("channel_id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}

	leads := make([]*domain.Lead, len(models))
	for i, m := range models {
		leads[i] = m.ToDomain()
	}

	return domain.NewLeadList(leads, total, params), nil
}

// Count returns the number of leads matching params.
func (r *Repository) Count(ctx context.Context, params domain.LeadListParams) (int64, error) {
	var total int64
	err := r.buildListQuery(params).WithContext(ctx).Model(&LeadModel{}).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}

	return total, nil
}

// Delete removes a lead by channel id.
func (r *Repository) Delete(ctx context.Context, channelID string) error {
	err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).Delete(&LeadModel{}).Error
	if err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}

	return nil
}

func (r *Repository) buildListQuery(params domain.LeadListParams) *gorm.DB {
	query := r.db.Model(&LeadModel{})

	if params.Approved != nil {
		query = query.Where("approved = ?", *params.Approved)
	}
	if params.MinScore > 0 {
		query = query.Where("score >= ?", params.MinScore)
	}

	return query
}
