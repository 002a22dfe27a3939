package service_test

import (
	"context"
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. The services run their transactions through
// runTx, which short-circuits on a nil *gorm.DB, so every Tx method here
// receives tx == nil and works against plain maps.

var (
	_ repository.UsuarioRepository      = (*stubUsuarioRepo)(nil)
	_ repository.ProductoRepository     = (*stubProductoRepo)(nil)
	_ repository.StockRepository        = (*stubStockRepo)(nil)
	_ repository.PresentacionRepository = (*stubPresentacionRepo)(nil)
	_ repository.MovimientoRepository   = (*stubMovimientoRepo)(nil)
	_ repository.PedidoRepository       = (*stubPedidoRepo)(nil)
)

// ── Usuarios ─────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok || !u.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) ExisteUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.usuarios[username]
	return ok, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

// ── Productos ────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) FindActivoByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || !p.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) ExisteNombre(_ context.Context, nombre string) (bool, error) {
	for _, p := range r.productos {
		if p.Nombre == nombre {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListByCategoria(_ context.Context, categoria string) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo && p.Categoria == categoria {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) ListConStock(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── Stocks ───────────────────────────────────────────────────────────────

type stubStockRepo struct {
	stocks         map[uuid.UUID]*model.Stock // by producto_id
	presentaciones *stubPresentacionRepo
}

func newStubStockRepo(presentaciones *stubPresentacionRepo) *stubStockRepo {
	return &stubStockRepo{
		stocks:         make(map[uuid.UUID]*model.Stock),
		presentaciones: presentaciones,
	}
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, s *model.Stock) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.stocks[s.ProductoID] = s
	return nil
}

func (r *stubStockRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) (*model.Stock, error) {
	s, ok := r.stocks[productoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStockRepo) ListAll(_ context.Context) ([]model.Stock, error) {
	out := make([]model.Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubStockRepo) CantidadTx(_ *gorm.DB, productoID uuid.UUID) (decimal.Decimal, error) {
	s, ok := r.stocks[productoID]
	if !ok {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	return s.CantidadActual, nil
}

func (r *stubStockRepo) IncrementarTx(_ *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	s, ok := r.stocks[productoID]
	if !ok {
		return 0, nil
	}
	s.CantidadActual = s.CantidadActual.Add(cantidad)
	return 1, nil
}

func (r *stubStockRepo) DescontarCondicionalTx(_ *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	s, ok := r.stocks[productoID]
	if !ok || s.CantidadActual.LessThan(cantidad) {
		return 0, nil
	}
	s.CantidadActual = s.CantidadActual.Sub(cantidad)
	return 1, nil
}

func (r *stubStockRepo) RecalcularDesdePresentacionesTx(_ *gorm.DB, productoID uuid.UUID) error {
	s, ok := r.stocks[productoID]
	if !ok {
		return nil
	}
	total := decimal.Zero
	for _, p := range r.presentaciones.presentaciones {
		if p.ProductoID == productoID && p.Activo {
			total = total.Add(p.StockActual.Mul(p.CantidadPorUnidad))
		}
	}
	s.CantidadActual = total
	return nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

// ── Presentaciones ───────────────────────────────────────────────────────

type stubPresentacionRepo struct {
	presentaciones map[uuid.UUID]*model.Presentacion
	medidas        map[uuid.UUID]*model.UnidadMedida
}

func newStubPresentacionRepo() *stubPresentacionRepo {
	return &stubPresentacionRepo{
		presentaciones: make(map[uuid.UUID]*model.Presentacion),
		medidas:        make(map[uuid.UUID]*model.UnidadMedida),
	}
}

func (r *stubPresentacionRepo) CreateMedida(_ context.Context, m *model.UnidadMedida) error {
	m.ID = uuid.New()
	r.medidas[m.ID] = m
	return nil
}

func (r *stubPresentacionRepo) ListMedidas(_ context.Context) ([]model.UnidadMedida, error) {
	out := make([]model.UnidadMedida, 0, len(r.medidas))
	for _, m := range r.medidas {
		if m.Activo {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubPresentacionRepo) FindMedidaByID(_ context.Context, id uuid.UUID) (*model.UnidadMedida, error) {
	m, ok := r.medidas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubPresentacionRepo) ExisteMedida(_ context.Context, nombre, abreviatura string) (bool, error) {
	for _, m := range r.medidas {
		if m.Nombre == nombre || m.Abreviatura == abreviatura {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubPresentacionRepo) Create(_ context.Context, p *model.Presentacion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.presentaciones[p.ID] = p
	return nil
}

func (r *stubPresentacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Presentacion, error) {
	p, ok := r.presentaciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPresentacionRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var out []model.Presentacion
	for _, p := range r.presentaciones {
		if p.ProductoID == productoID && p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPresentacionRepo) Update(_ context.Context, p *model.Presentacion) error {
	r.presentaciones[p.ID] = p
	return nil
}

func (r *stubPresentacionRepo) UpdateTx(_ *gorm.DB, p *model.Presentacion) error {
	r.presentaciones[p.ID] = p
	return nil
}

func (r *stubPresentacionRepo) SoftDeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if p, ok := r.presentaciones[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubPresentacionRepo) StockActualTx(_ *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	p, ok := r.presentaciones[id]
	if !ok || !p.Activo {
		return decimal.Zero, gorm.ErrRecordNotFound
	}
	return p.StockActual, nil
}

func (r *stubPresentacionRepo) IncrementarStockTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	p, ok := r.presentaciones[id]
	if !ok || !p.Activo {
		return 0, nil
	}
	p.StockActual = p.StockActual.Add(cantidad)
	return 1, nil
}

func (r *stubPresentacionRepo) DescontarStockCondicionalTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (int64, error) {
	p, ok := r.presentaciones[id]
	if !ok || !p.Activo || p.StockActual.LessThan(cantidad) {
		return 0, nil
	}
	p.StockActual = p.StockActual.Sub(cantidad)
	return 1, nil
}

func (r *stubPresentacionRepo) DB() *gorm.DB { return nil }

// ── Movimientos ──────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.Movimiento
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.Movimiento) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var out []model.Movimiento
	for _, m := range r.movimientos {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Movimiento, error) {
	var out []model.Movimiento
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for i := range p.Items {
		p.Items[i].ID = uuid.New()
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPedidoRepo) UpdateHeaderTx(_ *gorm.DB, p *model.Pedido) error {
	stored, ok := r.pedidos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	items := stored.Items
	*stored = *p
	stored.Items = items
	return nil
}

func (r *stubPedidoRepo) ReemplazarItemsTx(_ *gorm.DB, pedidoID uuid.UUID, items []model.PedidoItem) error {
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].PedidoID = pedidoID
	}
	p.Items = items
	return nil
}

func (r *stubPedidoRepo) ActualizarItemTx(_ *gorm.DB, item *model.PedidoItem) error {
	p, ok := r.pedidos[item.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range p.Items {
		if p.Items[i].ID == item.ID {
			p.Items[i].Cantidad = item.Cantidad
			p.Items[i].PrecioUnitario = item.PrecioUnitario
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) List(_ context.Context) ([]model.Pedido, error) {
	out := make([]model.Pedido, 0, len(r.pedidos))
	for _, p := range r.pedidos {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPedidoRepo) ListPendientes(_ context.Context) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Abierto {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) ListEntre(_ context.Context, desde, hasta time.Time) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if !p.CreatedAt.Before(desde) && p.CreatedAt.Before(hasta) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) Estadisticas(_ context.Context, desde, hasta time.Time) (*repository.EstadisticasPedidos, error) {
	agg := &repository.EstadisticasPedidos{MontoDespachado: decimal.Zero}
	for _, p := range r.pedidos {
		if p.CreatedAt.Before(desde) || !p.CreatedAt.Before(hasta) {
			continue
		}
		agg.TotalPedidos++
		if p.Abierto {
			agg.Pendientes++
		} else {
			agg.Despachados++
			agg.MontoDespachado = agg.MontoDespachado.Add(p.TotalEstimado)
		}
	}
	return agg, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

// ── Environment ──────────────────────────────────────────────────────────

type testEnv struct {
	usuarios       *stubUsuarioRepo
	productos      *stubProductoRepo
	stocks         *stubStockRepo
	presentaciones *stubPresentacionRepo
	movimientos    *stubMovimientoRepo
	pedidos        *stubPedidoRepo

	inventario      service.InventarioService
	pedidoSvc       service.PedidoService
	presentacionSvc service.PresentacionService
}

func newEnv() *testEnv {
	presentaciones := newStubPresentacionRepo()
	env := &testEnv{
		usuarios:       newStubUsuarioRepo(),
		productos:      newStubProductoRepo(),
		stocks:         newStubStockRepo(presentaciones),
		presentaciones: presentaciones,
		movimientos:    newStubMovimientoRepo(),
		pedidos:        newStubPedidoRepo(),
	}
	env.inventario = service.NewInventarioService(env.stocks, env.presentaciones, env.movimientos)
	env.pedidoSvc = service.NewPedidoService(env.pedidos, env.productos, env.presentaciones, env.inventario, nil, nil)
	env.presentacionSvc = service.NewPresentacionService(env.presentaciones, env.productos, env.stocks)
	return env
}

// seedProducto registers an active product with a flat stock row.
func (e *testEnv) seedProducto(nombre string, precioVenta decimal.Decimal, stockInicial decimal.Decimal) *model.Producto {
	p := &model.Producto{
		Nombre:      nombre,
		Categoria:   "abarrotes",
		PrecioVenta: precioVenta,
		Activo:      true,
	}
	_ = e.productos.CreateTx(nil, p)
	_ = e.stocks.CreateTx(nil, &model.Stock{ProductoID: p.ID, CantidadActual: stockInicial})
	return p
}

func (e *testEnv) seedPresentacion(productoID uuid.UUID, descripcion string, cantidadPorUnidad, stock decimal.Decimal) *model.Presentacion {
	p := &model.Presentacion{
		ProductoID:        productoID,
		Descripcion:       descripcion,
		CantidadPorUnidad: cantidadPorUnidad,
		PrecioVenta:       decimal.NewFromInt(1),
		StockActual:       stock,
		Activo:            true,
	}
	_ = e.presentaciones.Create(context.Background(), p)
	return p
}

func admin() service.Actor {
	return service.Actor{UsuarioID: uuid.New(), Username: "admin", Rol: model.RolAdmin}
}

func vendedor() service.Actor {
	return service.Actor{UsuarioID: uuid.New(), Username: "vendedora", Rol: model.RolVendedor}
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ptr(s string) *string { return &s }
