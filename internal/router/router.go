package router

import (
	"time"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/config"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/handler"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/middleware"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/repository"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/service"
	"github.com/RoDaGroJi/TiendaSinu-Back/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	presentacionRepo := repository.NewPresentacionRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, stockRepo, rdb)
	inventarioSvc := service.NewInventarioService(stockRepo, presentacionRepo, movimientoRepo)
	presentacionSvc := service.NewPresentacionService(presentacionRepo, productoRepo, stockRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, presentacionRepo, inventarioSvc, dispatcher, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	presentacionesH := handler.NewPresentacionesHandler(presentacionSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Storefront — no auth required: the customer browses and orders anonymously
	r.GET("/v1/productos", productosH.ListarPublico)
	r.GET("/v1/productos/:id", productosH.ObtenerPublico)
	r.GET("/v1/productos/:id/presentaciones", presentacionesH.ListarPorProducto)
	r.GET("/v1/categorias/:nombre/productos", productosH.ListarPorCategoria)
	r.GET("/v1/medidas", presentacionesH.ListarMedidas)
	r.GET("/v1/presentaciones/:id", presentacionesH.Obtener)
	r.POST("/v1/pedidos", pedidosH.Crear)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		staff := middleware.RequireRol(model.RolAdmin, model.RolVendedor)
		admin := middleware.RequireRol(model.RolAdmin)

		pedidos := v1.Group("/pedidos", staff)
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/pendientes", pedidosH.Pendientes)
			pedidos.GET("/hoy", pedidosH.Hoy)
			pedidos.GET("/historial", pedidosH.Historial)
			pedidos.GET("/estadisticas", pedidosH.Estadisticas)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.PUT("/:id", pedidosH.Actualizar)
			pedidos.POST("/:id/despachar", pedidosH.Despachar)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("/stock", staff, inventarioH.VerStock)
			inv.GET("/stock/:producto_id", staff, inventarioH.VerStockProducto)
			// INGRESO is gated to admin inside the service; EGRESO is open to staff
			inv.POST("/movimiento", staff, inventarioH.RegistrarMovimiento)
			inv.GET("/historial", admin, inventarioH.Historial)
			inv.GET("/historial/producto/:producto_id", admin, inventarioH.HistorialProducto)
		}

		v1.GET("/admin/productos", staff, productosH.ListarAdmin)

		// Catalog writes — admin only
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PATCH("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.POST("/:id/presentaciones", presentacionesH.Crear)
		}

		pres := v1.Group("/presentaciones", admin)
		{
			pres.PUT("/:id", presentacionesH.Actualizar)
			pres.DELETE("/:id", presentacionesH.Desactivar)
		}

		v1.POST("/medidas", admin, presentacionesH.CrearMedida)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI (disabled in production)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
