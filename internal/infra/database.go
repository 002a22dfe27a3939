package infra

import (
	"fmt"

	"github.com/RoDaGroJi/TiendaSinu-Back/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the postgres connection, applies AutoMigrate and the
// idempotent schema patches. Safe to run on every boot.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.UnidadMedida{},
		&model.Presentacion{},
		&model.Stock{},
		&model.Movimiento{},
		&model.Pedido{},
		&model.PedidoItem{},
	); err != nil {
		return nil, fmt.Errorf("database: automigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, err
	}
	return db, nil
}

// applySchemaPatches runs idempotent statements AutoMigrate cannot express:
// the stock backfill for products created before the stocks table existed
// and the composite index the movement history queries lean on.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct {
		descr string
		sql   string
	}{
		{"backfill stock rows", `
			INSERT INTO stocks (id, producto_id, cantidad_actual, created_at, updated_at)
			SELECT gen_random_uuid(), p.id, 0, NOW(), NOW()
			FROM productos p
			WHERE NOT EXISTS (SELECT 1 FROM stocks s WHERE s.producto_id = p.id)`},
		{"index movimientos by product and date", `
			CREATE INDEX IF NOT EXISTS idx_movimientos_producto_fecha
			ON movimientos (producto_id, created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("database: patch %q: %w", p.descr, err)
		}
	}
	return seedMedidas(db)
}

// seedMedidas inserts the standard unit measures on first boot.
// Re-running is a no-op.
func seedMedidas(db *gorm.DB) error {
	medidas := []struct {
		nombre      string
		abreviatura string
	}{
		{"gramo", "g"},
		{"kilogramo", "kg"},
		{"libra", "lb"},
		{"unidad", "und"},
		{"carton", "cart"},
		{"cubeta", "cub"},
		{"caja", "caja"},
	}
	for _, m := range medidas {
		err := db.Exec(`
			INSERT INTO unidades_medida (id, nombre, abreviatura, activo, created_at)
			SELECT gen_random_uuid(), ?, ?, true, NOW()
			WHERE NOT EXISTS (
				SELECT 1 FROM unidades_medida WHERE nombre = ? OR abreviatura = ?
			)`, m.nombre, m.abreviatura, m.nombre, m.abreviatura).Error
		if err != nil {
			return fmt.Errorf("database: seed medida %q: %w", m.nombre, err)
		}
	}
	return nil
}
