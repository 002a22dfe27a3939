package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movimiento is one append-only entry in the stock audit trail. Rows are
// never updated or deleted; corrections are compensating movements.
type Movimiento struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"producto_id"`
	PresentacionID *uuid.UUID      `gorm:"type:uuid" json:"presentacion_id"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null" json:"usuario_id"`
	Tipo           TipoMovimiento  `gorm:"type:varchar(10);not null" json:"tipo"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"cantidad"`
	Observacion    *string         `json:"observacion"`
	CreatedAt      time.Time       `json:"created_at"`

	Producto *Producto `gorm:"foreignKey:ProductoID" json:"producto,omitempty"`
	Usuario  *Usuario  `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
}

func (Movimiento) TableName() string { return "movimientos" }
