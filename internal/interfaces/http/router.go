package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/auth"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/bom"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/stock"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/usecase"
	"github.com/amoreX/nmitoddo-back-sub000/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	ProductUC    *usecase.ProductUseCase
	WorkCenterUC *usecase.WorkCenterUseCase
	BOMUC        *bom.UseCase
	StockUC      *stock.UseCase
	OrderUC      *manufacturing.OrderUseCase
	WorkOrderUC  *manufacturing.WorkOrderUseCase
	Availability *manufacturing.AvailabilityUseCase
	OrderReport  *pdf.MarotoOrderReport
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Work centers (protegido)
	workCenters := protected.Group("/work-centers")
	workCenterHandler := NewWorkCenterHandler(deps.WorkCenterUC)
	workCenters.Post("/", workCenterHandler.Create)
	workCenters.Get("/", workCenterHandler.List)
	workCenters.Get("/:id", workCenterHandler.GetByID)
	workCenters.Put("/:id", workCenterHandler.Update)
	workCenters.Delete("/:id", workCenterHandler.Delete)

	// BOMs (protegido). El set de líneas viaja siempre completo.
	boms := protected.Group("/boms")
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms.Post("/", bomHandler.Create)
	boms.Get("/:productId", bomHandler.Get)
	boms.Put("/:productId", bomHandler.Replace)
	boms.Delete("/:productId", bomHandler.Delete)
	boms.Get("/:productId/usage", bomHandler.CheckUsage)

	// Stock: movimientos, ajustes, snapshot y reconciliación (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/movements", stockHandler.RecordMovement)
	stockGroup.Get("/:productId", stockHandler.GetStock)
	stockGroup.Post("/:productId/adjust", stockHandler.Adjust)
	stockGroup.Get("/:productId/reconcile", stockHandler.Reconcile)
	stockGroup.Get("/:productId/movements", stockHandler.ListMovements)

	// Manufacturing orders (protegido)
	mos := protected.Group("/manufacturing-orders")
	moHandler := NewManufacturingOrderHandler(deps.OrderUC, deps.WorkOrderUC, deps.Availability, deps.ProductUC, deps.OrderReport)
	mos.Post("/", moHandler.Create)
	mos.Get("/", moHandler.List)
	mos.Get("/:id", moHandler.GetByID)
	mos.Post("/:id/transition", moHandler.Transition)
	mos.Delete("/:id", moHandler.Delete)
	mos.Get("/:id/validate", moHandler.Validate)
	mos.Get("/:id/availability", moHandler.CheckAvailability)
	mos.Post("/:id/work-orders", moHandler.CreateWorkOrder)
	mos.Get("/:id/report", moHandler.Report)

	// Work orders: ejecución desde el piso de planta (protegido)
	wos := protected.Group("/work-orders")
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	wos.Post("/:id/start", woHandler.Start)
	wos.Post("/:id/pause", woHandler.Pause)
	wos.Post("/:id/complete", woHandler.Complete)
}
