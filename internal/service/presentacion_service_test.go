package service_test

import (
	"context"
	"testing"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/dto"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearMedidaDuplicada(t *testing.T) {
	env := newEnv()
	_, err := env.presentacionSvc.CrearMedida(context.Background(), dto.CrearMedidaRequest{
		Nombre: "kilogramo", Abreviatura: "kg",
	})
	require.NoError(t, err)

	// Mismo nombre o misma abreviatura, da igual: ya existe.
	_, err = env.presentacionSvc.CrearMedida(context.Background(), dto.CrearMedidaRequest{
		Nombre: "kilo", Abreviatura: "kg",
	})
	require.ErrorIs(t, err, service.ErrMedidaExistente)
}

func TestCrearPresentacionProductoInexistente(t *testing.T) {
	env := newEnv()
	_, err := env.presentacionSvc.Crear(context.Background(), uuid.New(), dto.CrearPresentacionRequest{
		Descripcion:       "Bolsa x6",
		CantidadPorUnidad: d("6"),
		PrecioVenta:       d("10"),
	})
	require.ErrorIs(t, err, service.ErrProductoNoEncontrado)
}

func TestActualizarFactorRecalculaVistaPlana(t *testing.T) {
	env := newEnv()
	cafe := env.seedProducto("Cafe", d("15"), d("0"))
	bolsa := env.seedPresentacion(cafe.ID, "Bolsa x6", d("6"), d("4"))
	require.NoError(t, env.stocks.RecalcularDesdePresentacionesTx(nil, cafe.ID))

	nuevoFactor := d("12")
	_, err := env.presentacionSvc.Actualizar(context.Background(), bolsa.ID, dto.ActualizarPresentacionRequest{
		CantidadPorUnidad: &nuevoFactor,
	})
	require.NoError(t, err)

	stock, _ := env.stocks.FindByProductoID(context.Background(), cafe.ID)
	assert.True(t, stock.CantidadActual.Equal(d("48")), "4 bolsas x 12: got %s", stock.CantidadActual)
}

func TestDesactivarPresentacionRecalculaVistaPlana(t *testing.T) {
	env := newEnv()
	cafe := env.seedProducto("Cafe", d("15"), d("0"))
	bolsa := env.seedPresentacion(cafe.ID, "Bolsa x6", d("6"), d("2"))
	lata := env.seedPresentacion(cafe.ID, "Lata x1", d("1"), d("10"))
	require.NoError(t, env.stocks.RecalcularDesdePresentacionesTx(nil, cafe.ID))

	require.NoError(t, env.presentacionSvc.Desactivar(context.Background(), bolsa.ID))

	// Solo la lata sigue contando en la vista plana.
	stock, _ := env.stocks.FindByProductoID(context.Background(), cafe.ID)
	assert.True(t, stock.CantidadActual.Equal(d("10")), "got %s", stock.CantidadActual)

	// El snapshot de la presentacion desactivada sobrevive para el historial.
	guardada, err := env.presentaciones.FindByID(context.Background(), bolsa.ID)
	require.NoError(t, err)
	assert.False(t, guardada.Activo)
	assert.True(t, guardada.StockActual.Equal(d("2")))

	activas, err := env.presentacionSvc.ListarPorProducto(context.Background(), cafe.ID)
	require.NoError(t, err)
	require.Len(t, activas, 1)
	assert.Equal(t, lata.ID.String(), activas[0].ID)
}

func TestDesactivarPresentacionInexistente(t *testing.T) {
	env := newEnv()
	err := env.presentacionSvc.Desactivar(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrPresentacionNoEncontrada)
}
