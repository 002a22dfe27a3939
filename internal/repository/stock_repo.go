package repository

import (
	"context"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockRepository interface {
	CreateTx(tx *gorm.DB, s *model.Stock) error
	FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Stock, error)
	ListAll(ctx context.Context) ([]model.Stock, error)
	CantidadTx(tx *gorm.DB, productoID uuid.UUID) (decimal.Decimal, error)
	// IncrementarTx adds cantidad unconditionally. RowsAffected 0 means the
	// product has no stock row.
	IncrementarTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error)
	// DescontarCondicionalTx subtracts cantidad only when enough stock is
	// available, in a single UPDATE. RowsAffected 0 means the row is missing
	// or short — callers disambiguate with CantidadTx.
	DescontarCondicionalTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error)
	// RecalcularDesdePresentacionesTx rewrites the flat stock row from the
	// product's active presentations (sum of stock_actual * cantidad_por_unidad).
	RecalcularDesdePresentacionesTx(tx *gorm.DB, productoID uuid.UUID) error
	DB() *gorm.DB
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) CreateTx(tx *gorm.DB, s *model.Stock) error {
	return tx.Create(s).Error
}

func (r *stockRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	if err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *stockRepo) ListAll(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) CantidadTx(tx *gorm.DB, productoID uuid.UUID) (decimal.Decimal, error) {
	var s model.Stock
	if err := tx.Where("producto_id = ?", productoID).First(&s).Error; err != nil {
		return decimal.Zero, err
	}
	return s.CantidadActual, nil
}

func (r *stockRepo) IncrementarTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Stock{}).
		Where("producto_id = ?", productoID).
		Update("cantidad_actual", gorm.Expr("cantidad_actual + ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *stockRepo) DescontarCondicionalTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	// The availability check lives inside the UPDATE's WHERE so that two
	// concurrent dispatches cannot both pass a read-then-write check.
	res := tx.Model(&model.Stock{}).
		Where("producto_id = ? AND cantidad_actual >= ?", productoID, cantidad).
		Update("cantidad_actual", gorm.Expr("cantidad_actual - ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *stockRepo) RecalcularDesdePresentacionesTx(tx *gorm.DB, productoID uuid.UUID) error {
	return tx.Exec(`
		UPDATE stocks SET cantidad_actual = sub.total, updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(stock_actual * cantidad_por_unidad), 0) AS total
			FROM presentaciones
			WHERE producto_id = ? AND activo = true
		) sub
		WHERE stocks.producto_id = ?`, productoID, productoID).Error
}
