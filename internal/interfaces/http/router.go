// Package http expone la API sobre Fiber: catálogo de solo lectura,
// movimientos (despacho, recepción, manifiesto) y cargas masivas de archivos.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/catalog"
	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/application/movements"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.UseCase
	MovementUC  *movements.UseCase
	ProductImp  *importer.ProductImportUseCase
	MovementImp *importer.MovementImportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las
// escrituras quedan restringidas por rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo (solo lectura, cualquier rol autenticado)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/warehouses", catalogHandler.ListWarehouses)
	api.Get("/warehouses/:id", catalogHandler.GetWarehouse)
	api.Get("/vehicles", catalogHandler.ListVehicles)

	// Movimientos
	movementHandler := NewMovementHandler(deps.MovementUC)
	movs := api.Group("/movements")
	movs.Get("/", movementHandler.List)
	movs.Get("/:id", movementHandler.GetByID)
	movs.Get("/:id/manifest", movementHandler.Manifest)
	movs.Post("/", RequireRole(RoleAdmin, RoleBodeguero), movementHandler.Create)
	movs.Post("/:id/receipt", RequireRole(RoleAdmin, RoleBodeguero), movementHandler.Receive)

	// Cargas masivas (solo admin y bodeguero)
	importHandler := NewImportHandler(deps.ProductImp, deps.MovementImp)
	imports := api.Group("/imports", RequireRole(RoleAdmin, RoleBodeguero))
	imports.Post("/products", importHandler.ImportProducts)
	imports.Post("/movements", importHandler.ImportMovement)
}
