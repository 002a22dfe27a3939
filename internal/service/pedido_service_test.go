package service_test

// Order workflow tests: anonymous creation with server-side snapshots,
// staff edits while open, and the all-or-nothing dispatch that moves stock.

import (
	"context"
	"testing"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemReq(p *model.Producto, cantidad, precio string) dto.PedidoItemRequest {
	return dto.PedidoItemRequest{
		ProductoID:     p.ID.String(),
		Cantidad:       d(cantidad),
		PrecioUnitario: d(precio),
	}
}

func TestCrearPedidoSinItems(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
	})
	require.ErrorIs(t, err, service.ErrPedidoInvalido)
}

func TestCrearPedidoSinCliente(t *testing.T) {
	env := newEnv()
	p := env.seedProducto("Arroz", d("10"), d("100"))
	_, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "   ",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(p, "1", "10")},
	})
	require.ErrorIs(t, err, service.ErrPedidoInvalido)
}

func TestCrearPedidoProductoInexistente(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items: []dto.PedidoItemRequest{{
			ProductoID: uuid.NewString(),
			Cantidad:   d("1"),
		}},
	})
	require.ErrorIs(t, err, service.ErrPedidoInvalido)
}

func TestCrearPedidoConservaTotalDelCliente(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("100"))

	// Precio negociado por telefono: 9 en vez de los 10 de catalogo.
	resp, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		TotalEstimado:   d("18"),
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "2", "9")},
	})
	require.NoError(t, err)

	assert.True(t, resp.Abierto)
	assert.True(t, resp.TotalEstimado.Equal(d("18")), "el total del cliente se conserva en la creacion")
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Arroz", resp.Items[0].Producto, "el nombre se resuelve en el servidor")
	assert.True(t, resp.Items[0].PrecioUnitario.Equal(d("9")))
}

func TestActualizarRecalculaTotal(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("100"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		TotalEstimado:   d("10"),
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "1", "10")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// El cliente manda un total absurdo; la actualizacion lo ignora.
	resp, err := env.pedidoSvc.Actualizar(context.Background(), id, dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		TotalEstimado:   d("999"),
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "5", "5")},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalEstimado.Equal(d("25")), "total recalculado de los items: got %s", resp.TotalEstimado)
}

func TestActualizarPedidoNoEncontrado(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Actualizar(context.Background(), uuid.New(), dto.CrearPedidoRequest{})
	require.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
}

func TestDespacharDescuentaStockYCierra(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))
	frijol := env.seedProducto("Frijol", d("5"), d("5"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		TotalEstimado:   d("25"),
		Items: []dto.PedidoItemRequest{
			itemReq(arroz, "2", "10"),
			itemReq(frijol, "1", "5"),
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("2")},
		{ProductoID: frijol.ID.String(), Cantidad: d("1")},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalActualizado.Equal(d("25")))

	stockArroz, _ := env.stocks.FindByProductoID(context.Background(), arroz.ID)
	stockFrijol, _ := env.stocks.FindByProductoID(context.Background(), frijol.ID)
	assert.True(t, stockArroz.CantidadActual.Equal(d("8")))
	assert.True(t, stockFrijol.CantidadActual.Equal(d("4")))

	require.Len(t, env.movimientos.movimientos, 2)
	for _, m := range env.movimientos.movimientos {
		assert.Equal(t, model.MovimientoEgreso, m.Tipo)
		require.NotNil(t, m.Observacion)
		assert.Contains(t, *m.Observacion, "Despacho pedido")
	}

	pedido, _ := env.pedidos.FindByID(context.Background(), id)
	assert.False(t, pedido.Abierto)
}

func TestDespacharUsaPrecioCongelado(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		TotalEstimado:   d("18"),
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "2", "9")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("2")},
	})
	require.NoError(t, err)

	// La plata sigue el precio congelado al crear el pedido (9), no el de
	// catalogo (10); el snapshot del item queda refrescado al de catalogo.
	assert.True(t, resp.TotalActualizado.Equal(d("18")), "got %s", resp.TotalActualizado)
	pedido, _ := env.pedidos.FindByID(context.Background(), id)
	require.Len(t, pedido.Items, 1)
	assert.True(t, pedido.Items[0].PrecioUnitario.Equal(d("10")))
}

func TestDespacharTodoONada(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))
	frijol := env.seedProducto("Frijol", d("5"), d("5"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items: []dto.PedidoItemRequest{
			itemReq(arroz, "2", "10"),
			itemReq(frijol, "10", "5"),
		},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	_, err = env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("2")},
		{ProductoID: frijol.ID.String(), Cantidad: d("10")},
	})

	var insuficiente *service.StockInsuficienteError
	require.ErrorAs(t, err, &insuficiente)
	assert.Equal(t, frijol.ID, insuficiente.ProductoID)
	assert.True(t, insuficiente.Disponible.Equal(d("5")))

	// Nada se movio: ni la linea que si alcanzaba.
	stockArroz, _ := env.stocks.FindByProductoID(context.Background(), arroz.ID)
	assert.True(t, stockArroz.CantidadActual.Equal(d("10")))
	assert.Empty(t, env.movimientos.movimientos)

	pedido, _ := env.pedidos.FindByID(context.Background(), id)
	assert.True(t, pedido.Abierto, "un despacho fallido deja el pedido pendiente")
}

func TestDespacharLineaSinItemUsaPrecioCatalogo(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))
	azucar := env.seedProducto("Azucar", d("4"), d("20"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "1", "10")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// El cliente pidio arroz pero al final tambien se lleva azucar.
	resp, err := env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("1")},
		{ProductoID: azucar.ID.String(), Cantidad: d("3")},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalActualizado.Equal(d("22")), "10 + 3*4 de catalogo: got %s", resp.TotalActualizado)
}

func TestDespacharLineaConPresentacionUsaSuPrecio(t *testing.T) {
	env := newEnv()
	cafe := env.seedProducto("Cafe", d("10"), d("0"))
	bolsa := env.seedPresentacion(cafe.ID, "Bolsa 500g", d("6"), d("4"))
	bolsa.PrecioVenta = d("55")

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(cafe, "1", "10")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// La linea trae presentacion y no calza con el item plano del pedido:
	// el precio de catalogo que aplica es el de la bolsa, no el del producto.
	resp, err := env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: cafe.ID.String(), PresentacionID: ptr(bolsa.ID.String()), Cantidad: d("2")},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalActualizado.Equal(d("110")), "2 bolsas a 55: got %s", resp.TotalActualizado)

	pres, _ := env.presentaciones.FindByID(context.Background(), bolsa.ID)
	assert.True(t, pres.StockActual.Equal(d("2")))
	stockCafe, _ := env.stocks.FindByProductoID(context.Background(), cafe.ID)
	assert.True(t, stockCafe.CantidadActual.Equal(d("12")), "vista plana 2*6: got %s", stockCafe.CantidadActual)
}

func TestDespacharLineasRepetidasReportanDisponibleReal(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("5"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "3", "10")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	// Dos lineas del mismo producto suman 6 contra 5 en bodega: la falla
	// llega antes del primer descuento y reporta el stock real.
	_, err = env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("3")},
		{ProductoID: arroz.ID.String(), Cantidad: d("3")},
	})

	var insuficiente *service.StockInsuficienteError
	require.ErrorAs(t, err, &insuficiente)
	assert.Equal(t, arroz.ID, insuficiente.ProductoID)
	assert.True(t, insuficiente.Disponible.Equal(d("5")), "got %s", insuficiente.Disponible)

	stock, _ := env.stocks.FindByProductoID(context.Background(), arroz.ID)
	assert.True(t, stock.CantidadActual.Equal(d("5")))
	assert.Empty(t, env.movimientos.movimientos)
	pedido, _ := env.pedidos.FindByID(context.Background(), id)
	assert.True(t, pedido.Abierto)
}

func TestDespacharDosVeces(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))

	creado, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "1", "10")},
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	lineas := []dto.LineaDespachoRequest{{ProductoID: arroz.ID.String(), Cantidad: d("1")}}
	_, err = env.pedidoSvc.Despachar(context.Background(), id, vendedor(), lineas)
	require.NoError(t, err)

	_, err = env.pedidoSvc.Despachar(context.Background(), id, vendedor(), lineas)
	require.ErrorIs(t, err, service.ErrPedidoCerrado)

	_, err = env.pedidoSvc.Actualizar(context.Background(), id, dto.CrearPedidoRequest{
		ClienteNombre:   "Maria",
		ClienteTelefono: "3001234567",
		Items:           []dto.PedidoItemRequest{itemReq(arroz, "1", "10")},
	})
	require.ErrorIs(t, err, service.ErrPedidoCerrado)
}

func TestDespacharPedidoInexistente(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Despachar(context.Background(), uuid.New(), vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: uuid.NewString(), Cantidad: d("1")},
	})
	require.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
}

func TestHistorialFechaInvalida(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Historial(context.Background(), dto.PedidoFilter{Fecha: "28-08-2026"})
	require.ErrorIs(t, err, service.ErrFechaInvalida)
}

func TestEstadisticasDelDia(t *testing.T) {
	env := newEnv()
	arroz := env.seedProducto("Arroz", d("10"), d("10"))

	for i := 0; i < 2; i++ {
		_, err := env.pedidoSvc.Crear(context.Background(), dto.CrearPedidoRequest{
			ClienteNombre:   "Maria",
			ClienteTelefono: "3001234567",
			TotalEstimado:   d("10"),
			Items:           []dto.PedidoItemRequest{itemReq(arroz, "1", "10")},
		})
		require.NoError(t, err)
	}
	pendientes, err := env.pedidoSvc.Pendientes(context.Background())
	require.NoError(t, err)
	require.Len(t, pendientes, 2)

	id := uuid.MustParse(pendientes[0].ID)
	_, err = env.pedidoSvc.Despachar(context.Background(), id, vendedor(), []dto.LineaDespachoRequest{
		{ProductoID: arroz.ID.String(), Cantidad: d("1")},
	})
	require.NoError(t, err)

	stats, err := env.pedidoSvc.Estadisticas(context.Background(), dto.EstadisticasFilter{Periodo: "hoy"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPedidos)
	assert.Equal(t, int64(1), stats.Despachados)
	assert.Equal(t, int64(1), stats.Pendientes)
	assert.True(t, stats.MontoDespachado.Equal(d("10")))
	assert.True(t, stats.TicketPromedio.Equal(d("10")))
}

func TestEstadisticasPeriodoInvalido(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Estadisticas(context.Background(), dto.EstadisticasFilter{Periodo: "trimestre"})
	require.ErrorIs(t, err, service.ErrPeriodoInvalido)
}

func TestEstadisticasRangoSinFechas(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Estadisticas(context.Background(), dto.EstadisticasFilter{Periodo: "rango"})
	require.ErrorIs(t, err, service.ErrFechaInvalida)
}

func TestEstadisticasRangoInvertido(t *testing.T) {
	env := newEnv()
	_, err := env.pedidoSvc.Estadisticas(context.Background(), dto.EstadisticasFilter{
		Periodo: "rango",
		Desde:   "2026-08-28",
		Hasta:   "2026-08-20",
	})
	require.ErrorIs(t, err, service.ErrFechaInvalida)
}
