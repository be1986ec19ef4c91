package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createLeadsTable creates the leads table with all indexes.
func createLeadsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_leads",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS leads (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					channel_id VARCHAR(100) NOT NULL,
					title VARCHAR(500) NOT NULL,

					-- Normalized metrics
					subscriber_count BIGINT DEFAULT 0,
					total_view_count BIGINT DEFAULT 0,
					video_count BIGINT DEFAULT 0,
					uploads_per_month DECIMAL(10,2) DEFAULT 0,
					engagement_rate DECIMAL(6,2) DEFAULT 0,
					engagement_estimated BOOLEAN DEFAULT FALSE,
					age_in_months DECIMAL(8,2) DEFAULT 1,
					country VARCHAR(8),
					language VARCHAR(8),
					description TEXT,

					-- Score
					score INTEGER DEFAULT 0,
					tier INTEGER DEFAULT 3,
					classification VARCHAR(20),
					rubric VARCHAR(20),

					-- Verdict
					approved BOOLEAN DEFAULT FALSE,
					reasons TEXT[],
					matched_keywords TEXT[],

					topic VARCHAR(200),
					discovered_at TIMESTAMP NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					-- Unique constraint for upsert
					CONSTRAINT uq_leads_channel UNIQUE (channel_id)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score DESC);",
				"CREATE INDEX IF NOT EXISTS idx_leads_approved ON leads(approved);",
				"CREATE INDEX IF NOT EXISTS idx_leads_topic ON leads(topic);",
			}
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS leads;").Error
		},
	}
}
