package channels

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
)

func setupChannelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	reports := `
CREATE TABLE IF NOT EXISTS channel_reports (
  id TEXT PRIMARY KEY,
  channel TEXT NOT NULL,
  total_count INTEGER NOT NULL,
  valid_count INTEGER NOT NULL,
  warning_count INTEGER NOT NULL,
  error_count INTEGER NOT NULL,
  score TEXT NOT NULL,
  summary TEXT,
  created_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS channel_report_items (
  id TEXT PRIMARY KEY,
  report_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  rule_code TEXT NOT NULL,
  field TEXT NOT NULL,
  severity TEXT NOT NULL,
  message TEXT NOT NULL,
  suggestion TEXT NOT NULL,
  auto_fixable INTEGER NOT NULL DEFAULT 0,
  current_value TEXT NOT NULL DEFAULT ''
);`
	require.NoError(t, db.Exec(reports).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func TestReportPersistenceRoundTrip(t *testing.T) {
	db := setupChannelsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	valid := compliantProduct()
	errored := compliantProduct()
	errored.Price = decimal.Zero

	diag, err := RunDiagnostic([]models.Product{valid, errored}, enums.ChannelGoogleShopping)
	require.NoError(t, err)

	summary, _ := json.Marshal(diag.Summary)
	report := &models.ChannelReport{
		Channel:      diag.Channel,
		TotalCount:   diag.TotalCount,
		ValidCount:   diag.ValidCount,
		WarningCount: diag.WarningCount,
		ErrorCount:   diag.ErrorCount,
		Score:        diag.Score,
		Summary:      summary,
	}
	require.NoError(t, repo.CreateReport(ctx, report))

	items := make([]models.ChannelReportItem, 0, len(diag.Items))
	for _, item := range diag.Items {
		items = append(items, models.ChannelReportItem{
			ReportID:     report.ID,
			ProductID:    item.ProductID,
			RuleCode:     item.RuleCode,
			Field:        item.Field,
			Severity:     item.Severity,
			Message:      item.Message,
			Suggestion:   item.Suggestion,
			AutoFixable:  item.AutoFixable,
			CurrentValue: item.CurrentValue,
		})
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	stored, err := repo.FindReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, diag.TotalCount, stored.TotalCount)
	assert.True(t, stored.Score.Equal(diag.Score), "score must survive the round trip")
	assert.Len(t, stored.Items, len(diag.Items))

	var summaryBack map[string]int
	require.NoError(t, json.Unmarshal([]byte(stored.Summary), &summaryBack))
	assert.Equal(t, diag.Summary, summaryBack)
}

func TestRerunCreatesNewSnapshot(t *testing.T) {
	db := setupChannelsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		report := &models.ChannelReport{
			Channel: enums.ChannelStorefront,
			Score:   decimal.NewFromInt(100),
		}
		require.NoError(t, repo.CreateReport(ctx, report))
	}

	var count int64
	require.NoError(t, db.Model(&models.ChannelReport{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "re-running a diagnostic must insert, not mutate")
}

func TestServiceRejectsUnknownChannel(t *testing.T) {
	// the engine rejects before touching persistence, so an empty lister
	// is enough here
	diag, err := RunDiagnostic(nil, enums.Channel("unknown"))
	require.Nil(t, diag)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConfiguration, typed.Code())
}
