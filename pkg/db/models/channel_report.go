package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/julienmercier/catalogpulse-backend/pkg/db/types"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// ChannelReport is an immutable snapshot of one diagnostic run. Re-running
// the same channel inserts a new row.
type ChannelReport struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Channel      enums.Channel       `gorm:"column:channel;not null"`
	TotalCount   int                 `gorm:"column:total_count;not null"`
	ValidCount   int                 `gorm:"column:valid_count;not null"`
	WarningCount int                 `gorm:"column:warning_count;not null"`
	ErrorCount   int                 `gorm:"column:error_count;not null"`
	Score        decimal.Decimal     `gorm:"column:score;type:numeric(5,2);not null"`
	Summary      dbtypes.JSON        `gorm:"column:summary;type:jsonb"`
	Items        []ChannelReportItem `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (ChannelReport) TableName() string { return "channel_reports" }
