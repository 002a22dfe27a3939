package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Presentacion is a sellable packaging of a product (e.g. "bolsa 500g").
// StockActual here is the canonical count; the product's flat Stock row is
// derived from the active presentations.
type Presentacion struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"producto_id"`
	Descripcion       string          `gorm:"not null" json:"descripcion"`
	CantidadPorUnidad decimal.Decimal `gorm:"type:decimal(12,3);not null;default:1" json:"cantidad_por_unidad"`
	PrecioCompra      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_compra"`
	PrecioVenta       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_venta"`
	StockActual       decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"stock_actual"`
	UnidadMedidaID    *uuid.UUID      `gorm:"type:uuid" json:"unidad_medida_id"`
	Activo            bool            `gorm:"not null;default:true" json:"activo"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	UnidadMedida *UnidadMedida `gorm:"foreignKey:UnidadMedidaID" json:"unidad_medida,omitempty"`
}

func (Presentacion) TableName() string { return "presentaciones" }
