package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the read-model the affinity engine counts pairs from.
type Order struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Products  []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt  time.Time      `gorm:"column:placed_at;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderProduct links a product to an order.
type OrderProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
}

func (OrderProduct) TableName() string { return "order_products" }
