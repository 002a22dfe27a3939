package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock holds one row per product. For products with presentations it is a
// compatibility view (sum of stock_actual * cantidad_por_unidad over active
// presentations), recomputed in the same transaction as any presentation
// adjustment; for plain products it is the ledger itself.
// CantidadActual never goes below zero.
type Stock struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"producto_id"`
	CantidadActual decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"cantidad_actual"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Stock) TableName() string { return "stocks" }
