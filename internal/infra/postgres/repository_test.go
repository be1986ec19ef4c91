package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"channel-prospector/internal/domain"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connected
// GORM DB. Requires a running Docker daemon; skip with go test -short.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container (is Docker running?)")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&LeadModel{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	})

	return db
}

func testLead(channelID string, score int, approved bool) *domain.Lead {
	reasons := []string{}
	if !approved {
		reasons = []string{"subscribers 100 below required 1000"}
	}

	return &domain.Lead{
		Metrics: domain.ChannelMetrics{
			ID:              channelID,
			Title:           "Channel " + channelID,
			SubscriberCount: 50_000,
			TotalViewCount:  8_000_000,
			VideoCount:      400,
			UploadsPerMonth: 8,
			EngagementRate:  3.2,
			AgeInMonths:     36,
			Country:         "US",
			Language:        "en",
		},
		Score: domain.ScoreResult{
			Score:          score,
			Classification: domain.ClassificationMediumHigh,
			Rubric:         "balanced",
		},
		Verdict: domain.ApprovalVerdict{
			Approved:        approved,
			Reasons:         reasons,
			MatchedKeywords: []string{"workshop"},
		},
		Topic:        "woodworking",
		DiscoveredAt: time.Now().UTC(),
	}
}

func TestRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	lead := testLead("UC1", 60, true)
	require.NoError(t, repo.Upsert(ctx, lead))
	assert.NotEmpty(t, lead.ID, "database id assigned on insert")

	// Re-upserting the same channel refreshes instead of duplicating.
	lead.Score.Score = 72
	require.NoError(t, repo.Upsert(ctx, lead))

	got, err := repo.GetByChannelID(ctx, "UC1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 72, got.Score.Score)

	count, err := repo.Count(ctx, domain.LeadListParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetByChannelID_Missing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	got, err := repo.GetByChannelID(context.Background(), "UCmissing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_BulkUpsertAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	leads := []*domain.Lead{
		testLead("UCrej-high", 80, false),
		testLead("UCapp-low", 30, true),
		testLead("UCapp-high", 90, true),
		testLead("UCrej-low", 10, false),
	}
	require.NoError(t, repo.BulkUpsert(ctx, leads))

	list, err := repo.List(ctx, domain.LeadListParams{})
	require.NoError(t, err)
	require.Len(t, list.Leads, 4)
	assert.Equal(t, int64(4), list.Total)

	// Approved-first, then score descending within each group.
	ids := make([]string, len(list.Leads))
	for i, l := range list.Leads {
		ids[i] = l.Metrics.ID
	}
	assert.Equal(t, []string{"UCapp-high", "UCapp-low", "UCrej-high", "UCrej-low"}, ids)

	// Array columns round-trip.
	assert.Equal(t, []string{"workshop"}, []string(list.Leads[0].Verdict.MatchedKeywords))
}

func TestRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.BulkUpsert(ctx, []*domain.Lead{
		testLead("UC1", 85, true),
		testLead("UC2", 40, true),
		testLead("UC3", 70, false),
	}))

	approved := true
	list, err := repo.List(ctx, domain.LeadListParams{Approved: &approved, MinScore: 50})
	require.NoError(t, err)
	require.Len(t, list.Leads, 1)
	assert.Equal(t, "UC1", list.Leads[0].Metrics.ID)
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testLead("UC1", 50, true)))
	require.NoError(t, repo.Delete(ctx, "UC1"))

	got, err := repo.GetByChannelID(ctx, "UC1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
