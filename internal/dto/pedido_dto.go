package dto

import "github.com/shopspring/decimal"

type PedidoItemRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	PresentacionID *string         `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

// CrearPedidoRequest is accepted from the anonymous storefront. The total is
// taken as-is at creation (it may carry prices negotiated by phone); updates
// and dispatch recompute it server-side.
type CrearPedidoRequest struct {
	ClienteNombre    string              `json:"cliente_nombre"   validate:"required,min=2,max=120"`
	ClienteTelefono  string              `json:"cliente_telefono" validate:"required,min=6,max=30"`
	ClienteDireccion *string             `json:"cliente_direccion"`
	TotalEstimado    decimal.Decimal     `json:"total_estimado"   validate:"min=0"`
	Observaciones    *string             `json:"observaciones"`
	Items            []PedidoItemRequest `json:"items" validate:"required,min=1,dive"`
}

// LineaDespachoRequest is one line of the final dispatch: what actually
// leaves the store, which may differ from what was ordered.
type LineaDespachoRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	PresentacionID *string         `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
}

type DespacharPedidoRequest struct {
	Lineas []LineaDespachoRequest `json:"lineas" validate:"required,min=1,dive"`
}

type PedidoItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	PresentacionID *string         `json:"presentacion_id"`
	Producto       string          `json:"producto"`
	Presentacion   *string         `json:"presentacion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

type PedidoResponse struct {
	ID               string               `json:"id"`
	ClienteNombre    string               `json:"cliente_nombre"`
	ClienteTelefono  string               `json:"cliente_telefono"`
	ClienteDireccion *string              `json:"cliente_direccion"`
	TotalEstimado    decimal.Decimal      `json:"total_estimado"`
	Observaciones    *string              `json:"observaciones"`
	Abierto          bool                 `json:"abierto"`
	Items            []PedidoItemResponse `json:"items"`
	CreatedAt        string               `json:"created_at"`
}

type DespachoResponse struct {
	Mensaje          string          `json:"mensaje"`
	PedidoID         string          `json:"pedido_id"`
	TotalActualizado decimal.Decimal `json:"total_actualizado"`
}

type PedidoFilter struct {
	Fecha string `form:"fecha"` // YYYY-MM-DD; empty = sin filtro
}

type EstadisticasFilter struct {
	Periodo string `form:"periodo,default=hoy"`
	Desde   string `form:"desde"` // YYYY-MM-DD, solo para periodo=rango
	Hasta   string `form:"hasta"`
}

type EstadisticasResponse struct {
	Periodo         string          `json:"periodo"`
	Desde           string          `json:"desde"`
	Hasta           string          `json:"hasta"`
	TotalPedidos    int64           `json:"total_pedidos"`
	Despachados     int64           `json:"despachados"`
	Pendientes      int64           `json:"pendientes"`
	MontoDespachado decimal.Decimal `json:"monto_despachado"`
	TicketPromedio  decimal.Decimal `json:"ticket_promedio"`
}
