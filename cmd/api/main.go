package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/backoffice-api/docs"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/internal/jobs"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// @title                      Backoffice API
// @version                    1.0
// @description                API de back-office multi-tenant: productos, ventas, cierres de caja y tareas aislados por tenant.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
// @description                Token JWT: "Bearer <token>"
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(log.WithContext(ctx), cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	postgres.ExportPoolStats(pool)

	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	cashClosingRepo := postgres.NewCashClosingRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	saleUC := usecase.NewSaleUseCase(txRunner, saleRepo)
	cashClosingUC := usecase.NewCashClosingUseCase(txRunner, cashClosingRepo)
	taskUC := usecase.NewTaskUseCase(taskRepo)
	reportUC := usecase.NewReportUseCase(reportRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)

	// Resumen de ventas por tenant: única lectura entre tenants fuera de /api/admin
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = jobs.NewScheduler(log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		summary := jobs.NewSalesSummary(reportUC)
		if err := scheduler.Every(jobs.SalesSummaryJob, cfg.Jobs.SalesSummaryInterval, summary.Run); err != nil {
			log.Fatal().Err(err).Str("job", jobs.SalesSummaryJob).Msg("registrar job")
		}
		scheduler.Start()
		log.Info().
			Strs("jobs", scheduler.Jobs()).
			Dur("interval", cfg.Jobs.SalesSummaryInterval).
			Msg("scheduler iniciado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		ProductUC:     productUC,
		SaleUC:        saleUC,
		CashClosingUC: cashClosingUC,
		TaskUC:        taskUC,
		ReportUC:      reportUC,
		CompanyUC:     companyUC,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log.Zerolog(),
		SwaggerFile:   "./docs/swagger.json",
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
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("apagado del scheduler")
		}
	}

	log.Info().Msg("aplicación detenida")
}
