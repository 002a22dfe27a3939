package model

import (
	"time"

	"github.com/google/uuid"
)

// UnidadMedida is a structured measure (gramo, kilogramo, caja...).
// Seeded at migration time; both name and abbreviation are unique.
type UnidadMedida struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre      string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Abreviatura string    `gorm:"uniqueIndex;not null" json:"abreviatura"`
	Activo      bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
}

func (UnidadMedida) TableName() string { return "unidades_medida" }
