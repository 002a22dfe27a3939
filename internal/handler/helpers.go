package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/apierror"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/middleware"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorDe builds the service Actor from the JWT claims set by the auth
// middleware.
func actorDe(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)
	return service.Actor{UsuarioID: usuarioID, Username: claims.Username, Rol: claims.Rol}
}

// respondError maps domain errors to HTTP statuses. Anything unknown is a
// 500 with a generic body — internals are logged, never leaked.
func respondError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	switch {
	case errors.Is(err, service.ErrPedidoNoEncontrado),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrStockNoEncontrado),
		errors.Is(err, service.ErrMedidaNoEncontrada),
		errors.Is(err, service.ErrPresentacionNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrIngresoSoloAdmin):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, apierror.New(stockErr.Error()))
	case errors.Is(err, service.ErrPedidoInvalido),
		errors.Is(err, service.ErrPedidoCerrado),
		errors.Is(err, service.ErrProductoExistente),
		errors.Is(err, service.ErrMedidaExistente),
		errors.Is(err, service.ErrUsuarioExistente),
		errors.Is(err, service.ErrRolInvalido),
		errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrTipoMovimientoInvalido),
		errors.Is(err, service.ErrFechaInvalida),
		errors.Is(err, service.ErrPeriodoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("unclassified service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
