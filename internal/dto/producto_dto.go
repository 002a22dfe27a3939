package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=120"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"     validate:"required"`
	UnidadMedida string          `json:"unidad_medida"` // legacy free text, defaults to "unidad"
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
}

// ActualizarProductoRequest uses pointers so omitted fields stay untouched.
type ActualizarProductoRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Descripcion  *string          `json:"descripcion"`
	Categoria    *string          `json:"categoria"`
	UnidadMedida *string          `json:"unidad_medida"`
	PrecioCompra *decimal.Decimal `json:"precio_compra"`
	PrecioVenta  *decimal.Decimal `json:"precio_venta"`
}

// ProductoFilter holds query params for listings. Activo follows the
// convention: "" = solo activos, "false" = solo inactivos, "all" = todos.
type ProductoFilter struct {
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ProductoPublicoResponse is the anonymous storefront view: no purchase
// price, no active flag (inactive products are simply absent).
type ProductoPublicoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"`
	UnidadMedida string          `json:"unidad_medida"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
}

type ProductoResponse struct {
	ID           string           `json:"id"`
	Nombre       string           `json:"nombre"`
	Descripcion  *string          `json:"descripcion"`
	Categoria    string           `json:"categoria"`
	UnidadMedida string           `json:"unidad_medida"`
	PrecioCompra decimal.Decimal  `json:"precio_compra"`
	PrecioVenta  decimal.Decimal  `json:"precio_venta"`
	Activo       bool             `json:"activo"`
	Stock        *decimal.Decimal `json:"stock,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoPublicoResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
