package models

import (
	"github.com/google/uuid"

	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// ChannelReportItem is a single rule finding within a diagnostic run.
type ChannelReportItem struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReportID     uuid.UUID      `gorm:"column:report_id;type:uuid;not null;index"`
	ProductID    uuid.UUID      `gorm:"column:product_id;type:uuid;not null"`
	RuleCode     string         `gorm:"column:rule_code;not null"`
	Field        string         `gorm:"column:field;not null"`
	Severity     enums.Severity `gorm:"column:severity;not null"`
	Message      string         `gorm:"column:message;not null"`
	Suggestion   string         `gorm:"column:suggestion;not null"`
	AutoFixable  bool           `gorm:"column:auto_fixable;not null;default:false"`
	CurrentValue string         `gorm:"column:current_value;not null;default:''"`
}

func (ChannelReportItem) TableName() string { return "channel_report_items" }
