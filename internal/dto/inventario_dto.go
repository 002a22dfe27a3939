package dto

import "github.com/shopspring/decimal"

type MovimientoRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	PresentacionID *string         `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	Tipo           string          `json:"tipo"            validate:"required,oneof=INGRESO EGRESO"`
	Observacion    *string         `json:"observacion"`
}

type MovimientoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	PresentacionID *string         `json:"presentacion_id"`
	UsuarioID      string          `json:"usuario_id"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Observacion    *string         `json:"observacion"`
	CreatedAt      string          `json:"created_at"`
}

type StockResponse struct {
	ProductoID     string          `json:"producto_id"`
	CantidadActual decimal.Decimal `json:"cantidad_actual"`
	UpdatedAt      string          `json:"updated_at"`
}

type MovimientoFilter struct {
	Tipo  string `form:"tipo"              validate:"omitempty,oneof=INGRESO EGRESO"`
	Page  int    `form:"page,default=1"    validate:"min=1"`
	Limit int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
