package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/config"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoService implements the order workflow: anonymous creation, staff
// edits while the order is open, and a single terminal dispatch that moves
// inventory.
type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Despachar(ctx context.Context, id uuid.UUID, actor Actor, lineas []dto.LineaDespachoRequest) (*dto.DespachoResponse, error)
	Listar(ctx context.Context) ([]dto.PedidoResponse, error)
	Pendientes(ctx context.Context) ([]dto.PedidoResponse, error)
	Historial(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error)
	Estadisticas(ctx context.Context, filter dto.EstadisticasFilter) (*dto.EstadisticasResponse, error)
}

type pedidoService struct {
	repo           repository.PedidoRepository
	productos      repository.ProductoRepository
	presentaciones repository.PresentacionRepository
	inventario     InventarioService
	dispatcher     *worker.Dispatcher
	cfg            *config.Config
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productos repository.ProductoRepository,
	presentaciones repository.PresentacionRepository,
	inventario InventarioService,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) PedidoService {
	return &pedidoService{
		repo:           repo,
		productos:      productos,
		presentaciones: presentaciones,
		inventario:     inventario,
		dispatcher:     dispatcher,
		cfg:            cfg,
	}
}

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if strings.TrimSpace(req.ClienteNombre) == "" ||
		strings.TrimSpace(req.ClienteTelefono) == "" ||
		len(req.Items) == 0 {
		return nil, ErrPedidoInvalido
	}

	items, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pedido := model.Pedido{
		ClienteNombre:    strings.TrimSpace(req.ClienteNombre),
		ClienteTelefono:  strings.TrimSpace(req.ClienteTelefono),
		ClienteDireccion: req.ClienteDireccion,
		// The client total is trusted at creation: it can carry prices
		// negotiated by phone that the catalog does not know about.
		TotalEstimado: req.TotalEstimado,
		Observaciones: req.Observaciones,
		Abierto:       true,
		Items:         items,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, &pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificarNuevoPedido(ctx, &pedido)
	return pedidoToResponse(&pedido), nil
}

// resolverItems validates every referenced product/presentation and builds
// the item rows with server-resolved name snapshots — the anonymous client
// is never trusted to write history.
func (s *pedidoService) resolverItems(ctx context.Context, reqs []dto.PedidoItemRequest) ([]model.PedidoItem, error) {
	items := make([]model.PedidoItem, 0, len(reqs))
	for _, it := range reqs {
		productoID, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id invalido", ErrPedidoInvalido)
		}
		producto, err := s.productos.FindActivoByID(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto %s no existe", ErrPedidoInvalido, it.ProductoID)
		}
		if it.Cantidad.Sign() <= 0 {
			return nil, fmt.Errorf("%w: cantidad invalida para %s", ErrPedidoInvalido, producto.Nombre)
		}

		item := model.PedidoItem{
			ProductoID:     productoID,
			ProductoNombre: producto.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
		if it.PresentacionID != nil {
			presentacionID, err := uuid.Parse(*it.PresentacionID)
			if err != nil {
				return nil, fmt.Errorf("%w: presentacion_id invalido", ErrPedidoInvalido)
			}
			pres, err := s.presentaciones.FindByID(ctx, presentacionID)
			if err != nil || pres.ProductoID != productoID {
				return nil, fmt.Errorf("%w: presentacion %s no pertenece al producto", ErrPedidoInvalido, *it.PresentacionID)
			}
			item.PresentacionID = &presentacionID
			descripcion := pres.Descripcion
			item.PresentacionDescripcion = &descripcion
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPedidoNoEncontrado
	}
	if !pedido.Abierto {
		return nil, ErrPedidoCerrado
	}
	if strings.TrimSpace(req.ClienteNombre) == "" ||
		strings.TrimSpace(req.ClienteTelefono) == "" ||
		len(req.Items) == 0 {
		return nil, ErrPedidoInvalido
	}

	items, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Unlike creation, updates ignore the client-supplied total: it is
	// recomputed from the lines so staff edits cannot be spoofed.
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Cantidad.Mul(it.PrecioUnitario))
	}

	pedido.ClienteNombre = strings.TrimSpace(req.ClienteNombre)
	pedido.ClienteTelefono = strings.TrimSpace(req.ClienteTelefono)
	pedido.ClienteDireccion = req.ClienteDireccion
	pedido.Observaciones = req.Observaciones
	pedido.TotalEstimado = total

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ReemplazarItemsTx(tx, pedido.ID, items); err != nil {
			return err
		}
		return s.repo.UpdateHeaderTx(tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	pedido.Items = items
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Despachar(ctx context.Context, id uuid.UUID, actor Actor, lineas []dto.LineaDespachoRequest) (*dto.DespachoResponse, error) {
	if len(lineas) == 0 {
		return nil, ErrPedidoInvalido
	}

	var totalFinal decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pedido, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrPedidoNoEncontrado
		}
		if !pedido.Abierto {
			return ErrPedidoCerrado
		}

		type lineaResuelta struct {
			productoID     uuid.UUID
			presentacionID *uuid.UUID
			cantidad       decimal.Decimal
			precio         decimal.Decimal
			precioCatalogo decimal.Decimal
			item           *model.PedidoItem
		}
		resueltas := make([]lineaResuelta, 0, len(lineas))
		for _, linea := range lineas {
			productoID, err := uuid.Parse(linea.ProductoID)
			if err != nil {
				return fmt.Errorf("%w: producto_id invalido", ErrPedidoInvalido)
			}
			var presentacionID *uuid.UUID
			if linea.PresentacionID != nil {
				v, err := uuid.Parse(*linea.PresentacionID)
				if err != nil {
					return fmt.Errorf("%w: presentacion_id invalido", ErrPedidoInvalido)
				}
				presentacionID = &v
			}
			producto, err := s.productos.FindByIDTx(tx, productoID)
			if err != nil {
				return ErrProductoNoEncontrado
			}

			// Catalog price for the line: the presentation's when the line
			// names one, the product's flat price otherwise.
			precioCatalogo := producto.PrecioVenta
			if presentacionID != nil {
				pres, err := s.presentaciones.FindByID(ctx, *presentacionID)
				if err != nil {
					return ErrPresentacionNoEncontrada
				}
				precioCatalogo = pres.PrecioVenta
			}

			item := buscarItem(pedido.Items, productoID, presentacionID)
			// Money follows the price frozen when the order was placed;
			// a line with no matching item falls back to catalog price.
			precio := precioCatalogo
			if item != nil {
				precio = item.PrecioUnitario
			} else {
				log.Warn().
					Str("pedido_id", pedido.ID.String()).
					Str("producto_id", productoID.String()).
					Msg("linea de despacho sin item en el pedido: se usa el precio de catalogo")
			}
			resueltas = append(resueltas, lineaResuelta{
				productoID:     productoID,
				presentacionID: presentacionID,
				cantidad:       linea.Cantidad,
				precio:         precio,
				precioCatalogo: precioCatalogo,
				item:           item,
			})
		}

		// Availability is checked across every line before the first
		// decrement: one short line aborts the whole dispatch untouched.
		// Demand is aggregated per target so repeated lines for the same
		// product are caught here, with the quantity actually on hand,
		// instead of failing mid-loop against an already-decremented row.
		type claveStock struct {
			producto     uuid.UUID
			presentacion uuid.UUID // uuid.Nil = stock plano
		}
		disponibles := make(map[claveStock]decimal.Decimal)
		demandas := make(map[claveStock]decimal.Decimal)
		for _, r := range resueltas {
			clave := claveStock{producto: r.productoID}
			if r.presentacionID != nil {
				clave.presentacion = *r.presentacionID
			}
			if _, ok := disponibles[clave]; !ok {
				disponible, err := s.inventario.DisponibleTx(tx, r.productoID, r.presentacionID)
				if err != nil {
					return err
				}
				disponibles[clave] = disponible
			}
			demandas[clave] = demandas[clave].Add(r.cantidad)
			if demandas[clave].GreaterThan(disponibles[clave]) {
				return &StockInsuficienteError{ProductoID: r.productoID, Disponible: disponibles[clave]}
			}
		}

		observacion := fmt.Sprintf("Despacho pedido #%s", pedido.ID)
		total := decimal.Zero
		for _, r := range resueltas {
			if _, err := s.inventario.AjustarTx(tx, r.productoID, r.presentacionID, r.cantidad, model.MovimientoEgreso); err != nil {
				return err
			}
			obs := observacion
			mov := &model.Movimiento{
				ProductoID:     r.productoID,
				PresentacionID: r.presentacionID,
				UsuarioID:      actor.UsuarioID,
				Tipo:           model.MovimientoEgreso,
				Cantidad:       r.cantidad,
				Observacion:    &obs,
			}
			if err := s.inventario.RegistrarMovimientoTx(tx, mov); err != nil {
				return err
			}

			total = total.Add(r.precio.Mul(r.cantidad))

			if r.item != nil {
				// The item keeps the dispatched quantity, and its price
				// snapshot is refreshed to the current catalog value — the
				// total above was already computed from the frozen price.
				r.item.Cantidad = r.cantidad
				r.item.PrecioUnitario = r.precioCatalogo
				if err := s.repo.ActualizarItemTx(tx, r.item); err != nil {
					return err
				}
			}
		}

		pedido.TotalEstimado = total
		pedido.Abierto = false
		totalFinal = total
		return s.repo.UpdateHeaderTx(tx, pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRemito(ctx, worker.RemitoJobPayload{PedidoID: id.String()}); err != nil {
			log.Error().Err(err).Str("pedido_id", id.String()).Msg("no se pudo encolar el remito")
		}
	}

	return &dto.DespachoResponse{
		Mensaje:          "Pedido despachado e inventario actualizado",
		PedidoID:         id.String(),
		TotalActualizado: totalFinal,
	}, nil
}

func (s *pedidoService) Listar(ctx context.Context) ([]dto.PedidoResponse, error) {
	pedidos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return pedidosToResponse(pedidos), nil
}

func (s *pedidoService) Pendientes(ctx context.Context) ([]dto.PedidoResponse, error) {
	pedidos, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, err
	}
	return pedidosToResponse(pedidos), nil
}

func (s *pedidoService) Historial(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error) {
	if filter.Fecha == "" {
		return s.Listar(ctx)
	}
	// Day boundaries on the deployment's local clock.
	dia, err := time.ParseInLocation("2006-01-02", filter.Fecha, time.Local)
	if err != nil {
		return nil, ErrFechaInvalida
	}
	pedidos, err := s.repo.ListEntre(ctx, dia, dia.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return pedidosToResponse(pedidos), nil
}

func (s *pedidoService) Estadisticas(ctx context.Context, filter dto.EstadisticasFilter) (*dto.EstadisticasResponse, error) {
	desde, hasta, err := rangoPeriodo(filter)
	if err != nil {
		return nil, err
	}
	agg, err := s.repo.Estadisticas(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	promedio := decimal.Zero
	if agg.Despachados > 0 {
		promedio = agg.MontoDespachado.Div(decimal.NewFromInt(agg.Despachados)).Round(2)
	}
	periodo := filter.Periodo
	if periodo == "" {
		periodo = "hoy"
	}
	return &dto.EstadisticasResponse{
		Periodo:         periodo,
		Desde:           desde.Format("2006-01-02"),
		Hasta:           hasta.AddDate(0, 0, -1).Format("2006-01-02"),
		TotalPedidos:    agg.TotalPedidos,
		Despachados:     agg.Despachados,
		Pendientes:      agg.Pendientes,
		MontoDespachado: agg.MontoDespachado,
		TicketPromedio:  promedio,
	}, nil
}

// rangoPeriodo resolves a named period to [desde, hasta) with both bounds
// at local midnight.
func rangoPeriodo(filter dto.EstadisticasFilter) (time.Time, time.Time, error) {
	now := time.Now()
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	switch filter.Periodo {
	case "", "hoy":
		return hoy, hoy.AddDate(0, 0, 1), nil
	case "semana":
		return hoy.AddDate(0, 0, -6), hoy.AddDate(0, 0, 1), nil
	case "mes":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local), hoy.AddDate(0, 0, 1), nil
	case "rango":
		desde, err := time.ParseInLocation("2006-01-02", filter.Desde, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, ErrFechaInvalida
		}
		hasta, err := time.ParseInLocation("2006-01-02", filter.Hasta, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, ErrFechaInvalida
		}
		if hasta.Before(desde) {
			return time.Time{}, time.Time{}, ErrFechaInvalida
		}
		return desde, hasta.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, ErrPeriodoInvalido
}

func (s *pedidoService) notificarNuevoPedido(ctx context.Context, pedido *model.Pedido) {
	if s.dispatcher == nil || s.cfg == nil || s.cfg.VentasEmail == "" {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: s.cfg.VentasEmail,
		Subject: fmt.Sprintf("Nuevo pedido de %s", pedido.ClienteNombre),
		Body: fmt.Sprintf(
			"Pedido %s por un total estimado de $%s.\nTelefono: %s",
			pedido.ID, pedido.TotalEstimado.StringFixed(2), pedido.ClienteTelefono,
		),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("pedido_id", pedido.ID.String()).Msg("no se pudo encolar la notificacion de pedido")
	}
}

func buscarItem(items []model.PedidoItem, productoID uuid.UUID, presentacionID *uuid.UUID) *model.PedidoItem {
	for i := range items {
		it := &items[i]
		if it.ProductoID != productoID {
			continue
		}
		if presentacionID == nil && it.PresentacionID == nil {
			return it
		}
		if presentacionID != nil && it.PresentacionID != nil && *it.PresentacionID == *presentacionID {
			return it
		}
	}
	return nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, 0, len(p.Items))
	for i := range p.Items {
		it := &p.Items[i]
		item := dto.PedidoItemResponse{
			ProductoID:     it.ProductoID.String(),
			Producto:       it.ProductoNombre,
			Presentacion:   it.PresentacionDescripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
		}
		if it.PresentacionID != nil {
			id := it.PresentacionID.String()
			item.PresentacionID = &id
		}
		items = append(items, item)
	}
	return &dto.PedidoResponse{
		ID:               p.ID.String(),
		ClienteNombre:    p.ClienteNombre,
		ClienteTelefono:  p.ClienteTelefono,
		ClienteDireccion: p.ClienteDireccion,
		TotalEstimado:    p.TotalEstimado,
		Observaciones:    p.Observaciones,
		Abierto:          p.Abierto,
		Items:            items,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}

func pedidosToResponse(pedidos []model.Pedido) []dto.PedidoResponse {
	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *pedidoToResponse(&pedidos[i]))
	}
	return out
}
