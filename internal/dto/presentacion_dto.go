package dto

import "github.com/shopspring/decimal"

type CrearMedidaRequest struct {
	Nombre      string `json:"nombre"      validate:"required,min=1,max=50"`
	Abreviatura string `json:"abreviatura" validate:"required,min=1,max=10"`
}

type MedidaResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Abreviatura string `json:"abreviatura"`
}

type CrearPresentacionRequest struct {
	Descripcion       string          `json:"descripcion"         validate:"required,min=1,max=120"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad" validate:"required,gt=0"`
	PrecioCompra      decimal.Decimal `json:"precio_compra"       validate:"min=0"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"        validate:"required,gt=0"`
	UnidadMedidaID    *string         `json:"unidad_medida_id"    validate:"omitempty,uuid"`
}

type ActualizarPresentacionRequest struct {
	Descripcion       *string          `json:"descripcion" validate:"omitempty,min=1,max=120"`
	CantidadPorUnidad *decimal.Decimal `json:"cantidad_por_unidad"`
	PrecioCompra      *decimal.Decimal `json:"precio_compra"`
	PrecioVenta       *decimal.Decimal `json:"precio_venta"`
	UnidadMedidaID    *string          `json:"unidad_medida_id" validate:"omitempty,uuid"`
}

type PresentacionResponse struct {
	ID                string          `json:"id"`
	ProductoID        string          `json:"producto_id"`
	Descripcion       string          `json:"descripcion"`
	CantidadPorUnidad decimal.Decimal `json:"cantidad_por_unidad"`
	PrecioCompra      decimal.Decimal `json:"precio_compra"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	StockActual       decimal.Decimal `json:"stock_actual"`
	UnidadMedidaID    *string         `json:"unidad_medida_id"`
	Activo            bool            `json:"activo"`
}
