package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// ScanJob tracks the progress of one full-catalog scan.
type ScanJob struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status     enums.ScanStatus  `gorm:"column:status;not null;default:pending"`
	Total      int               `gorm:"column:total;not null;default:0"`
	Processed  int               `gorm:"column:processed;not null;default:0"`
	Succeeded  int               `gorm:"column:succeeded;not null;default:0"`
	Failed     int               `gorm:"column:failed;not null;default:0"`
	Percent    float64           `gorm:"column:percent;not null;default:0"`
	Message    string            `gorm:"column:message;not null;default:''"`
	Failures   []ScanItemFailure `gorm:"foreignKey:ScanID;constraint:OnDelete:CASCADE"`
	StartedAt  *time.Time        `gorm:"column:started_at"`
	FinishedAt *time.Time        `gorm:"column:finished_at"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (ScanJob) TableName() string { return "scan_jobs" }
