package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Product is the canonical catalog record every engine reads from.
type Product struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title          string              `gorm:"column:title;not null"`
	Description    *string             `gorm:"column:description"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	CostPrice      decimal.Decimal     `gorm:"column:cost_price;type:numeric(12,2);not null;default:0"`
	StockQty       *int                `gorm:"column:stock_qty"`
	SKU            *string             `gorm:"column:sku"`
	Barcode        *string             `gorm:"column:barcode"`
	Brand          *string             `gorm:"column:brand"`
	Category       *string             `gorm:"column:category"`
	Tags           pq.StringArray      `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	SEOTitle       *string             `gorm:"column:seo_title"`
	SEODescription *string             `gorm:"column:seo_description"`
	Images         pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	MainImage      *string             `gorm:"column:main_image"`
	Status         enums.ProductStatus `gorm:"column:status;not null;default:active"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
