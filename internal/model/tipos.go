package model

// Rol is the access role carried by a Usuario and by every JWT.
type Rol string

const (
	RolAdmin    Rol = "admin"
	RolVendedor Rol = "vendedor"
)

// Valida reports whether the role is one of the known values.
func (r Rol) Valida() bool {
	return r == RolAdmin || r == RolVendedor
}

// TipoMovimiento classifies a stock movement. The ledger only knows two
// directions: merchandise coming in and merchandise going out.
type TipoMovimiento string

const (
	MovimientoIngreso TipoMovimiento = "INGRESO"
	MovimientoEgreso  TipoMovimiento = "EGRESO"
)

func (t TipoMovimiento) Valido() bool {
	return t == MovimientoIngreso || t == MovimientoEgreso
}
