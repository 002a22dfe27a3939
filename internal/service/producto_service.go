package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The public catalog is the hottest read path (anonymous storefront), so the
// default listing is cached in redis. The cache is a convenience, never a
// source of truth: every write invalidates it and reads fall through to
// postgres on a miss.
const (
	catalogoCacheKey = "catalogo:productos"
	catalogoCacheTTL = 5 * time.Minute
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ListarPublico(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoPublicoResponse, error)
	ObtenerPublico(ctx context.Context, id uuid.UUID) (*dto.ProductoPublicoResponse, error)
	ListarAdmin(ctx context.Context) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo   repository.ProductoRepository
	stocks repository.StockRepository
	rdb    *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, stocks repository.StockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, stocks: stocks, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existe, err := s.repo.ExisteNombre(ctx, req.Nombre)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, ErrProductoExistente
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	producto := &model.Producto{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		UnidadMedida: unidad,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
		Activo:       true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, producto); err != nil {
			return err
		}
		// Every product is born with its stock row at zero — the ledger
		// never has to create rows lazily.
		return s.stocks.CreateTx(tx, &model.Stock{ProductoID: producto.ID})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidarCatalogo(ctx)
	resp := productoToResponse(producto, nil)
	return &resp, nil
}

func (s *productoService) ListarPublico(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	// Only the unfiltered first page is cached; filtered queries go straight
	// to the database.
	cacheable := s.rdb != nil && filter.Nombre == "" && filter.Categoria == "" && filter.Activo == "" && filter.Page <= 1
	if cacheable {
		if cached, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var resp dto.ProductoListResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	filter.Activo = "" // el catalogo publico solo lista activos

	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoPublicoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, productoToPublico(&productos[i]))
	}
	resp := &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}

	if cacheable {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, catalogoCacheKey, b, catalogoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el catalogo")
			}
		}
	}
	return resp, nil
}

func (s *productoService) ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoPublicoResponse, error) {
	productos, err := s.repo.ListByCategoria(ctx, categoria)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoPublicoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToPublico(&productos[i]))
	}
	return out, nil
}

func (s *productoService) ObtenerPublico(ctx context.Context, id uuid.UUID) (*dto.ProductoPublicoResponse, error) {
	producto, err := s.repo.FindActivoByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	resp := productoToPublico(producto)
	return &resp, nil
}

func (s *productoService) ListarAdmin(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListConStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		var cantidad *decimal.Decimal
		if productos[i].Stock != nil {
			c := productos[i].Stock.CantidadActual
			cantidad = &c
		}
		out = append(out, productoToResponse(&productos[i], cantidad))
	}
	return out, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	if req.Nombre != nil && *req.Nombre != producto.Nombre {
		existe, err := s.repo.ExisteNombre(ctx, *req.Nombre)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, ErrProductoExistente
		}
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		producto.Categoria = *req.Categoria
	}
	if req.UnidadMedida != nil {
		producto.UnidadMedida = *req.UnidadMedida
	}
	if req.PrecioCompra != nil {
		producto.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		producto.PrecioVenta = *req.PrecioVenta
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	resp := productoToResponse(producto, nil)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *productoService) invalidarCatalogo(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la cache del catalogo")
	}
}

func productoToPublico(p *model.Producto) dto.ProductoPublicoResponse {
	return dto.ProductoPublicoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		UnidadMedida: p.UnidadMedida,
		PrecioVenta:  p.PrecioVenta,
	}
}

func productoToResponse(p *model.Producto, stock *decimal.Decimal) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		UnidadMedida: p.UnidadMedida,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Activo:       p.Activo,
		Stock:        stock,
	}
}
