package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
)

func setupScoringTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS pillar_scores (
  product_id TEXT PRIMARY KEY,
  title_score INTEGER NOT NULL,
  description_score INTEGER NOT NULL,
  images_score INTEGER NOT NULL,
  pricing_score INTEGER NOT NULL,
  identifiers_score INTEGER NOT NULL,
  seo_score INTEGER NOT NULL,
  overall_score INTEGER NOT NULL,
  issues TEXT,
  recommendations TEXT,
  computed_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestUpsertOverwritesPriorScore(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	first := &models.PillarScore{
		ProductID:    productID,
		TitleScore:   40,
		OverallScore: 40,
		ComputedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &models.PillarScore{
		ProductID:    productID,
		TitleScore:   90,
		OverallScore: 85,
		ComputedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	require.NoError(t, db.Model(&models.PillarScore{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert must not create a second row")

	stored, err := repo.FindByProductID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 85, stored.OverallScore)
	assert.Equal(t, 90, stored.TitleScore)
}

func TestUpsertBatchWritesChunk(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	scores := []models.PillarScore{
		{ProductID: uuid.New(), OverallScore: 10, ComputedAt: time.Now().UTC()},
		{ProductID: uuid.New(), OverallScore: 20, ComputedAt: time.Now().UTC()},
		{ProductID: uuid.New(), OverallScore: 30, ComputedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.UpsertBatch(ctx, scores))

	var count int64
	require.NoError(t, db.Model(&models.PillarScore{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	require.NoError(t, repo.UpsertBatch(ctx, nil), "empty chunk is a no-op")
}

func TestFindByProductIDMissing(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByProductID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScoreRowRoundTripsJSONColumns(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	p := baseProduct()
	p.Description = strPtr("Too short.")
	result := Score(p, time.Now())

	row, err := ToModel(result)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, row))

	stored, err := repo.FindByProductID(ctx, p.ID)
	require.NoError(t, err)

	back, err := FromModel(stored)
	require.NoError(t, err)
	assert.Equal(t, result.Scores, back.Scores)
	assert.Equal(t, len(result.Issues), len(back.Issues))
	assert.Equal(t, len(result.Recommendations), len(back.Recommendations))
}
