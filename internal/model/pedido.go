package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido is a customer order, created anonymously from the storefront.
// Abierto=true means pending; it flips to false exactly once when staff
// dispatches it, and dispatched orders never reopen.
type Pedido struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClienteNombre    string          `gorm:"not null" json:"cliente_nombre"`
	ClienteTelefono  string          `gorm:"not null" json:"cliente_telefono"`
	ClienteDireccion *string         `json:"cliente_direccion"`
	TotalEstimado    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_estimado"`
	Observaciones    *string         `json:"observaciones"`
	Abierto          bool            `gorm:"not null;default:true;index" json:"abierto"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Items []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoItem is one order line. ProductoNombre and PresentacionDescripcion
// are denormalized snapshots so history survives catalog renames and
// deactivations; PrecioUnitario is the price frozen at order time.
type PedidoItem struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PedidoID                uuid.UUID       `gorm:"type:uuid;not null;index" json:"pedido_id"`
	ProductoID              uuid.UUID       `gorm:"type:uuid;not null" json:"producto_id"`
	PresentacionID          *uuid.UUID      `gorm:"type:uuid" json:"presentacion_id"`
	ProductoNombre          string          `gorm:"not null" json:"producto_nombre"`
	PresentacionDescripcion *string         `json:"presentacion_descripcion"`
	Cantidad                decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad"`
	PrecioUnitario          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`
	CreatedAt               time.Time       `json:"created_at"`
}

func (PedidoItem) TableName() string { return "pedido_items" }
