package repository

import (
	"context"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PresentacionRepository interface {
	// Medidas
	CreateMedida(ctx context.Context, m *model.UnidadMedida) error
	ListMedidas(ctx context.Context) ([]model.UnidadMedida, error)
	FindMedidaByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error)
	ExisteMedida(ctx context.Context, nombre, abreviatura string) (bool, error)

	// Presentaciones
	Create(ctx context.Context, p *model.Presentacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error)
	Update(ctx context.Context, p *model.Presentacion) error
	UpdateTx(tx *gorm.DB, p *model.Presentacion) error
	SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error

	// Stock per presentation, same RowsAffected contract as StockRepository.
	StockActualTx(tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error)
	IncrementarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error)
	DescontarStockCondicionalTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error)

	DB() *gorm.DB
}

type presentacionRepo struct {
	db *gorm.DB
}

func NewPresentacionRepository(db *gorm.DB) PresentacionRepository {
	return &presentacionRepo{db: db}
}

func (r *presentacionRepo) DB() *gorm.DB { return r.db }

func (r *presentacionRepo) CreateMedida(ctx context.Context, m *model.UnidadMedida) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *presentacionRepo) ListMedidas(ctx context.Context) ([]model.UnidadMedida, error) {
	var medidas []model.UnidadMedida
	err := r.db.WithContext(ctx).
		Where("activo = true").
		Order("nombre ASC").
		Find(&medidas).Error
	return medidas, err
}

func (r *presentacionRepo) FindMedidaByID(ctx context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	var m model.UnidadMedida
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *presentacionRepo) ExisteMedida(ctx context.Context, nombre, abreviatura string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UnidadMedida{}).
		Where("LOWER(nombre) = LOWER(?) OR LOWER(abreviatura) = LOWER(?)", nombre, abreviatura).
		Count(&count).Error
	return count > 0, err
}

func (r *presentacionRepo) Create(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *presentacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error) {
	var p model.Presentacion
	if err := r.db.WithContext(ctx).
		Preload("UnidadMedida").
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presentacionRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	err := r.db.WithContext(ctx).
		Preload("UnidadMedida").
		Where("producto_id = ? AND activo = true", productoID).
		Order("descripcion ASC").
		Find(&presentaciones).Error
	return presentaciones, err
}

func (r *presentacionRepo) Update(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *presentacionRepo) UpdateTx(tx *gorm.DB, p *model.Presentacion) error {
	return tx.Save(p).Error
}

func (r *presentacionRepo) SoftDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Presentacion{}).
		Where("id = ?", id).
		Update("activo", false).Error
}

func (r *presentacionRepo) StockActualTx(tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	var p model.Presentacion
	if err := tx.Select("stock_actual").
		Where("id = ? AND activo = true", id).
		First(&p).Error; err != nil {
		return decimal.Zero, err
	}
	return p.StockActual, nil
}

func (r *presentacionRepo) IncrementarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Presentacion{}).
		Where("id = ? AND activo = true", id).
		Update("stock_actual", gorm.Expr("stock_actual + ?", cantidad))
	return res.RowsAffected, res.Error
}

func (r *presentacionRepo) DescontarStockCondicionalTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	res := tx.Model(&model.Presentacion{}).
		Where("id = ? AND activo = true AND stock_actual >= ?", id, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	return res.RowsAffected, res.Error
}
