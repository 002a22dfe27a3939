package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. UnidadMedida is the legacy free-text unit
// ('kg', 'unidad'); structured measures live on Presentacion.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre       string          `gorm:"uniqueIndex;not null" json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `gorm:"index;not null" json:"categoria"`
	UnidadMedida string          `gorm:"not null;default:'unidad'" json:"unidad_medida"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_compra"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_venta"`
	Activo       bool            `gorm:"not null;default:true" json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Stock          *Stock         `gorm:"foreignKey:ProductoID" json:"stock,omitempty"`
	Presentaciones []Presentacion `gorm:"foreignKey:ProductoID" json:"presentaciones,omitempty"`
}

func (Producto) TableName() string { return "productos" }
