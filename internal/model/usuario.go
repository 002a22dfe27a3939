package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is a staff account. Customers never log in: orders are placed
// anonymously and only staff operates on them.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Rol          Rol       `gorm:"type:varchar(20);not null" json:"rol"`
	Activo       bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }
