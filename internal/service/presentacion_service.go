package service

import (
	"context"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PresentacionService interface {
	CrearMedida(ctx context.Context, req dto.CrearMedidaRequest) (*dto.MedidaResponse, error)
	ListarMedidas(ctx context.Context) ([]dto.MedidaResponse, error)
	Crear(ctx context.Context, productoID uuid.UUID, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error)
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PresentacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type presentacionService struct {
	repo      repository.PresentacionRepository
	productos repository.ProductoRepository
	stocks    repository.StockRepository
}

func NewPresentacionService(
	repo repository.PresentacionRepository,
	productos repository.ProductoRepository,
	stocks repository.StockRepository,
) PresentacionService {
	return &presentacionService{repo: repo, productos: productos, stocks: stocks}
}

func (s *presentacionService) CrearMedida(ctx context.Context, req dto.CrearMedidaRequest) (*dto.MedidaResponse, error) {
	existe, err := s.repo.ExisteMedida(ctx, req.Nombre, req.Abreviatura)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, ErrMedidaExistente
	}

	medida := &model.UnidadMedida{
		Nombre:      req.Nombre,
		Abreviatura: req.Abreviatura,
		Activo:      true,
	}
	if err := s.repo.CreateMedida(ctx, medida); err != nil {
		return nil, err
	}
	resp := medidaToResponse(medida)
	return &resp, nil
}

func (s *presentacionService) ListarMedidas(ctx context.Context) ([]dto.MedidaResponse, error) {
	medidas, err := s.repo.ListMedidas(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedidaResponse, 0, len(medidas))
	for i := range medidas {
		out = append(out, medidaToResponse(&medidas[i]))
	}
	return out, nil
}

func (s *presentacionService) Crear(ctx context.Context, productoID uuid.UUID, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error) {
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, ErrProductoNoEncontrado
	}

	var unidadMedidaID *uuid.UUID
	if req.UnidadMedidaID != nil {
		id, err := uuid.Parse(*req.UnidadMedidaID)
		if err != nil {
			return nil, ErrMedidaNoEncontrada
		}
		if _, err := s.repo.FindMedidaByID(ctx, id); err != nil {
			return nil, ErrMedidaNoEncontrada
		}
		unidadMedidaID = &id
	}

	presentacion := &model.Presentacion{
		ProductoID:        productoID,
		Descripcion:       req.Descripcion,
		CantidadPorUnidad: req.CantidadPorUnidad,
		PrecioCompra:      req.PrecioCompra,
		PrecioVenta:       req.PrecioVenta,
		UnidadMedidaID:    unidadMedidaID,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, presentacion); err != nil {
		return nil, err
	}
	resp := presentacionToResponse(presentacion)
	return &resp, nil
}

func (s *presentacionService) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error) {
	presentaciones, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentacionResponse, 0, len(presentaciones))
	for i := range presentaciones {
		out = append(out, presentacionToResponse(&presentaciones[i]))
	}
	return out, nil
}

func (s *presentacionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PresentacionResponse, error) {
	presentacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPresentacionNoEncontrada
	}
	resp := presentacionToResponse(presentacion)
	return &resp, nil
}

func (s *presentacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error) {
	presentacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPresentacionNoEncontrada
	}

	if req.Descripcion != nil {
		presentacion.Descripcion = *req.Descripcion
	}
	if req.CantidadPorUnidad != nil {
		presentacion.CantidadPorUnidad = *req.CantidadPorUnidad
	}
	if req.PrecioCompra != nil {
		presentacion.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		presentacion.PrecioVenta = *req.PrecioVenta
	}
	if req.UnidadMedidaID != nil {
		medidaID, err := uuid.Parse(*req.UnidadMedidaID)
		if err != nil {
			return nil, ErrMedidaNoEncontrada
		}
		if _, err := s.repo.FindMedidaByID(ctx, medidaID); err != nil {
			return nil, ErrMedidaNoEncontrada
		}
		presentacion.UnidadMedidaID = &medidaID
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, presentacion); err != nil {
			return err
		}
		if req.CantidadPorUnidad != nil {
			// A new conversion factor changes the derived flat view.
			return s.stocks.RecalcularDesdePresentacionesTx(tx, presentacion.ProductoID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := presentacionToResponse(presentacion)
	return &resp, nil
}

func (s *presentacionService) Desactivar(ctx context.Context, id uuid.UUID) error {
	presentacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrPresentacionNoEncontrada
	}
	// Soft delete keeps historical order snapshots valid; the flat view
	// stops counting the deactivated presentation.
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SoftDeleteTx(tx, id); err != nil {
			return err
		}
		return s.stocks.RecalcularDesdePresentacionesTx(tx, presentacion.ProductoID)
	})
}

func medidaToResponse(m *model.UnidadMedida) dto.MedidaResponse {
	return dto.MedidaResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Abreviatura: m.Abreviatura,
	}
}

func presentacionToResponse(p *model.Presentacion) dto.PresentacionResponse {
	resp := dto.PresentacionResponse{
		ID:                p.ID.String(),
		ProductoID:        p.ProductoID.String(),
		Descripcion:       p.Descripcion,
		CantidadPorUnidad: p.CantidadPorUnidad,
		PrecioCompra:      p.PrecioCompra,
		PrecioVenta:       p.PrecioVenta,
		StockActual:       p.StockActual,
		Activo:            p.Activo,
	}
	if p.UnidadMedidaID != nil {
		id := p.UnidadMedidaID.String()
		resp.UnidadMedidaID = &id
	}
	return resp
}
