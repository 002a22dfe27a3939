package repository

import (
	"context"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EstadisticasPedidos are the aggregates for a period.
type EstadisticasPedidos struct {
	TotalPedidos    int64
	Despachados     int64
	Pendientes      int64
	MontoDespachado decimal.Decimal
}

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	// UpdateHeaderTx persists header columns without touching the items.
	UpdateHeaderTx(tx *gorm.DB, p *model.Pedido) error
	// ReemplazarItemsTx swaps the whole item set (delete all + insert).
	ReemplazarItemsTx(tx *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem) error
	ActualizarItemTx(tx *gorm.DB, item *model.PedidoItem) error
	List(ctx context.Context) ([]model.Pedido, error)
	ListPendientes(ctx context.Context) ([]model.Pedido, error)
	// ListEntre returns orders created in [desde, hasta).
	ListEntre(ctx context.Context, desde, hasta time.Time) ([]model.Pedido, error)
	Estadisticas(ctx context.Context, desde, hasta time.Time) (*EstadisticasPedidos, error)
	DB() *gorm.DB
}

type pedidoRepo struct {
	db *gorm.DB
}

func NewPedidoRepository(db *gorm.DB) PedidoRepository {
	return &pedidoRepo{db: db}
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	// Items cascade through the association.
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) UpdateHeaderTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *pedidoRepo) ReemplazarItemsTx(tx *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem) error {
	if err := tx.Where("pedido_id = ?", pedidoID).
		Delete(&model.PedidoItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PedidoID = pedidoID
	}
	return tx.Create(&items).Error
}

func (r *pedidoRepo) ActualizarItemTx(tx *gorm.DB, item *model.PedidoItem) error {
	return tx.Model(&model.PedidoItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"cantidad":        item.Cantidad,
			"precio_unitario": item.PrecioUnitario,
		}).Error
}

func (r *pedidoRepo) List(ctx context.Context) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListPendientes(ctx context.Context) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("abierto = true").
		Order("created_at ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListEntre(ctx context.Context, desde, hasta time.Time) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) Estadisticas(ctx context.Context, desde, hasta time.Time) (*EstadisticasPedidos, error) {
	var agg struct {
		TotalPedidos    int64
		Despachados     int64
		Pendientes      int64
		MontoDespachado decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*)                                                   AS total_pedidos,
			COUNT(*) FILTER (WHERE NOT abierto)                        AS despachados,
			COUNT(*) FILTER (WHERE abierto)                            AS pendientes,
			COALESCE(SUM(total_estimado) FILTER (WHERE NOT abierto), 0) AS monto_despachado
		FROM pedidos
		WHERE created_at >= ? AND created_at < ?`, desde, hasta).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &EstadisticasPedidos{
		TotalPedidos:    agg.TotalPedidos,
		Despachados:     agg.Despachados,
		Pendientes:      agg.Pendientes,
		MontoDespachado: agg.MontoDespachado,
	}, nil
}
