package repository

import (
	"context"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoFilter narrows the movement history listing.
type MovimientoFilter struct {
	ProductoID *uuid.UUID
	Tipo       model.TipoMovimiento
	Page       int
	Limit      int
}

// MovimientoRepository is append-only on purpose: the audit trail has no
// update or delete operations.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.Movimiento) error
	List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Movimiento, error)
}

type movimientoRepo struct {
	db *gorm.DB
}

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository {
	return &movimientoRepo{db: db}
}

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.Movimiento) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, filter MovimientoFilter) ([]model.Movimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Movimiento{})

	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movimientos []model.Movimiento
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Movimiento, error) {
	var movimientos []model.Movimiento
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Find(&movimientos).Error
	return movimientos, err
}
