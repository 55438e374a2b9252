package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/auth"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/bom"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/manufacturing"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/stock"
	"github.com/amoreX/nmitoddo-back-sub000/internal/application/usecase"
	infrapdf "github.com/amoreX/nmitoddo-back-sub000/internal/infrastructure/pdf"
	"github.com/amoreX/nmitoddo-back-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/amoreX/nmitoddo-back-sub000/internal/interfaces/http"
	"github.com/amoreX/nmitoddo-back-sub000/pkg/config"
	"github.com/amoreX/nmitoddo-back-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	moRepo := postgres.NewManufacturingOrderRepository(pool)
	woRepo := postgres.NewWorkOrderRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	workCenterRepo := postgres.NewWorkCenterRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	workCenterUC := usecase.NewWorkCenterUseCase(workCenterRepo)
	bomUC := bom.NewUseCase(txRunner, bomRepo, productRepo, moRepo)
	stockUC := stock.NewUseCase(txRunner, productRepo, ledgerRepo, stockRepo)
	availabilityUC := manufacturing.NewAvailabilityUseCase(
		moRepo, woRepo, bomRepo, stockRepo, productRepo, workCenterRepo,
		cfg.Mfg.AssigneeActiveMOLimit,
	)
	orderUC := manufacturing.NewOrderUseCase(
		txRunner, moRepo, woRepo, productRepo, availabilityUC,
		log.Component("mo"), cfg.Mfg.DefaultWODurationMinutes,
	)
	workOrderUC := manufacturing.NewWorkOrderUseCase(
		txRunner, moRepo, woRepo,
		log.Component("wo"), cfg.Mfg.DefaultWODurationMinutes,
	)
	orderReport := infrapdf.NewMarotoOrderReport(decimal.NewFromFloat(cfg.Mfg.FlatUnitCost))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		WorkCenterUC: workCenterUC,
		BOMUC:        bomUC,
		StockUC:      stockUC,
		OrderUC:      orderUC,
		WorkOrderUC:  workOrderUC,
		Availability: availabilityUC,
		OrderReport:  orderReport,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
