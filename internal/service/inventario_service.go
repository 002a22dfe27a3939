package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService owns the stock ledger and the movement audit trail.
// The Tx methods run inside a caller-provided transaction so that order
// dispatch can adjust stock atomically with its own writes.
type InventarioService interface {
	VerStock(ctx context.Context) ([]dto.StockResponse, error)
	VerStockProducto(ctx context.Context, productoID uuid.UUID) (*dto.StockResponse, error)
	RegistrarMovimiento(ctx context.Context, actor Actor, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	Historial(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	HistorialProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoResponse, error)

	DisponibleTx(tx *gorm.DB, productoID uuid.UUID, presentacionID *uuid.UUID) (decimal.Decimal, error)
	// AjustarTx applies one INGRESO or EGRESO to the ledger and returns the
	// new quantity. EGRESO uses a conditional decrement: it either succeeds
	// or returns *StockInsuficienteError without touching the row. It does
	// NOT record a Movimiento — that is the caller's explicit step.
	AjustarTx(tx *gorm.DB, productoID uuid.UUID, presentacionID *uuid.UUID, cantidad decimal.Decimal, tipo model.TipoMovimiento) (decimal.Decimal, error)
	RegistrarMovimientoTx(tx *gorm.DB, m *model.Movimiento) error
}

type inventarioService struct {
	stocks         repository.StockRepository
	presentaciones repository.PresentacionRepository
	movimientos    repository.MovimientoRepository
}

func NewInventarioService(
	stocks repository.StockRepository,
	presentaciones repository.PresentacionRepository,
	movimientos repository.MovimientoRepository,
) InventarioService {
	return &inventarioService{
		stocks:         stocks,
		presentaciones: presentaciones,
		movimientos:    movimientos,
	}
}

func (s *inventarioService) VerStock(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, err := s.stocks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, stockToResponse(&stocks[i]))
	}
	return out, nil
}

func (s *inventarioService) VerStockProducto(ctx context.Context, productoID uuid.UUID) (*dto.StockResponse, error) {
	stock, err := s.stocks.FindByProductoID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNoEncontrado
		}
		return nil, err
	}
	resp := stockToResponse(stock)
	return &resp, nil
}

func (s *inventarioService) RegistrarMovimiento(ctx context.Context, actor Actor, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	tipo := model.TipoMovimiento(req.Tipo)
	if !tipo.Valido() {
		return nil, ErrTipoMovimientoInvalido
	}
	// Merchandise intake is an admin-only operation; egress is open to any
	// authenticated staff.
	if tipo == model.MovimientoIngreso && actor.Rol != model.RolAdmin {
		return nil, ErrIngresoSoloAdmin
	}

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id invalido", ErrProductoNoEncontrado)
	}
	var presentacionID *uuid.UUID
	if req.PresentacionID != nil {
		id, err := uuid.Parse(*req.PresentacionID)
		if err != nil {
			return nil, ErrPresentacionNoEncontrada
		}
		presentacionID = &id
	}

	var mov model.Movimiento
	txErr := runTx(ctx, s.stocks.DB(), func(tx *gorm.DB) error {
		if _, err := s.AjustarTx(tx, productoID, presentacionID, req.Cantidad, tipo); err != nil {
			return err
		}
		mov = model.Movimiento{
			ProductoID:     productoID,
			PresentacionID: presentacionID,
			UsuarioID:      actor.UsuarioID,
			Tipo:           tipo,
			Cantidad:       req.Cantidad,
			Observacion:    req.Observacion,
		}
		return s.movimientos.CreateTx(tx, &mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := movimientoToResponse(&mov)
	return &resp, nil
}

func (s *inventarioService) Historial(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimientos, total, err := s.movimientos.List(ctx, repository.MovimientoFilter{
		Tipo:  model.TipoMovimiento(filter.Tipo),
		Page:  filter.Page,
		Limit: filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, movimientoToResponse(&movimientos[i]))
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventarioService) HistorialProducto(ctx context.Context, productoID uuid.UUID) ([]dto.MovimientoResponse, error) {
	movimientos, err := s.movimientos.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		out = append(out, movimientoToResponse(&movimientos[i]))
	}
	return out, nil
}

func (s *inventarioService) DisponibleTx(tx *gorm.DB, productoID uuid.UUID, presentacionID *uuid.UUID) (decimal.Decimal, error) {
	if presentacionID != nil {
		disponible, err := s.presentaciones.StockActualTx(tx, *presentacionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, ErrStockNoEncontrado
			}
			return decimal.Zero, err
		}
		return disponible, nil
	}
	disponible, err := s.stocks.CantidadTx(tx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrStockNoEncontrado
		}
		return decimal.Zero, err
	}
	return disponible, nil
}

func (s *inventarioService) AjustarTx(tx *gorm.DB, productoID uuid.UUID, presentacionID *uuid.UUID, cantidad decimal.Decimal, tipo model.TipoMovimiento) (decimal.Decimal, error) {
	if cantidad.Sign() <= 0 {
		return decimal.Zero, ErrCantidadInvalida
	}
	if presentacionID != nil {
		return s.ajustarPresentacionTx(tx, productoID, *presentacionID, cantidad, tipo)
	}

	var rows int64
	var err error
	switch tipo {
	case model.MovimientoIngreso:
		rows, err = s.stocks.IncrementarTx(tx, productoID, cantidad)
	case model.MovimientoEgreso:
		rows, err = s.stocks.DescontarCondicionalTx(tx, productoID, cantidad)
	default:
		return decimal.Zero, ErrTipoMovimientoInvalido
	}
	if err != nil {
		return decimal.Zero, err
	}
	if rows == 0 {
		// Missing row and insufficient stock both leave RowsAffected at 0;
		// a follow-up read tells them apart.
		disponible, derr := s.stocks.CantidadTx(tx, productoID)
		if derr != nil {
			return decimal.Zero, ErrStockNoEncontrado
		}
		return decimal.Zero, &StockInsuficienteError{ProductoID: productoID, Disponible: disponible}
	}
	return s.stocks.CantidadTx(tx, productoID)
}

func (s *inventarioService) ajustarPresentacionTx(tx *gorm.DB, productoID, presentacionID uuid.UUID, cantidad decimal.Decimal, tipo model.TipoMovimiento) (decimal.Decimal, error) {
	var rows int64
	var err error
	switch tipo {
	case model.MovimientoIngreso:
		rows, err = s.presentaciones.IncrementarStockTx(tx, presentacionID, cantidad)
	case model.MovimientoEgreso:
		rows, err = s.presentaciones.DescontarStockCondicionalTx(tx, presentacionID, cantidad)
	default:
		return decimal.Zero, ErrTipoMovimientoInvalido
	}
	if err != nil {
		return decimal.Zero, err
	}
	if rows == 0 {
		disponible, derr := s.presentaciones.StockActualTx(tx, presentacionID)
		if derr != nil {
			return decimal.Zero, ErrStockNoEncontrado
		}
		return decimal.Zero, &StockInsuficienteError{ProductoID: productoID, Disponible: disponible}
	}

	// The flat stock row is a derived view over the active presentations;
	// it is recomputed inside the same transaction so the two never diverge.
	if err := s.stocks.RecalcularDesdePresentacionesTx(tx, productoID); err != nil {
		return decimal.Zero, err
	}
	return s.presentaciones.StockActualTx(tx, presentacionID)
}

func (s *inventarioService) RegistrarMovimientoTx(tx *gorm.DB, m *model.Movimiento) error {
	if m.Cantidad.Sign() <= 0 {
		return ErrCantidadInvalida
	}
	return s.movimientos.CreateTx(tx, m)
}

func stockToResponse(s *model.Stock) dto.StockResponse {
	return dto.StockResponse{
		ProductoID:     s.ProductoID.String(),
		CantidadActual: s.CantidadActual,
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

func movimientoToResponse(m *model.Movimiento) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:          m.ID.String(),
		ProductoID:  m.ProductoID.String(),
		UsuarioID:   m.UsuarioID.String(),
		Tipo:        string(m.Tipo),
		Cantidad:    m.Cantidad,
		Observacion: m.Observacion,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.PresentacionID != nil {
		id := m.PresentacionID.String()
		resp.PresentacionID = &id
	}
	return resp
}
