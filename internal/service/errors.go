package service

import (
	"errors"
	"fmt"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors. Handlers map them to HTTP statuses; anything not listed
// here is treated as an internal error and logged.
var (
	ErrPedidoInvalido           = errors.New("pedido invalido: faltan datos del cliente o items")
	ErrPedidoNoEncontrado       = errors.New("pedido no encontrado")
	ErrPedidoCerrado            = errors.New("el pedido ya fue despachado")
	ErrProductoNoEncontrado     = errors.New("producto no encontrado")
	ErrProductoExistente        = errors.New("ya existe un producto con ese nombre")
	ErrStockNoEncontrado        = errors.New("el producto no tiene registro de stock")
	ErrIngresoSoloAdmin         = errors.New("solo el administrador puede registrar ingresos de mercancia")
	ErrTipoMovimientoInvalido   = errors.New("tipo de movimiento invalido")
	ErrCantidadInvalida         = errors.New("la cantidad debe ser mayor a cero")
	ErrMedidaExistente          = errors.New("la medida ya existe")
	ErrMedidaNoEncontrada       = errors.New("medida no encontrada")
	ErrPresentacionNoEncontrada = errors.New("presentacion no encontrada")
	ErrCredencialesInvalidas    = errors.New("credenciales invalidas")
	ErrUsuarioExistente         = errors.New("el usuario ya existe")
	ErrRolInvalido              = errors.New("rol invalido: use admin o vendedor")
	ErrFechaInvalida            = errors.New("fecha invalida: use el formato YYYY-MM-DD")
	ErrPeriodoInvalido          = errors.New("periodo invalido: use hoy, semana, mes o rango")
)

// StockInsuficienteError carries the quantity actually available so the
// caller can tell the customer how much is left.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Disponible decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("Stock insuficiente. Disponible: %s", e.Disponible)
}

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	UsuarioID uuid.UUID
	Username  string
	Rol       model.Rol
}
