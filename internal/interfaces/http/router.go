package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	ProductUC     *usecase.ProductUseCase
	SaleUC        *usecase.SaleUseCase
	CashClosingUC *usecase.CashClosingUseCase
	TaskUC        *usecase.TaskUseCase
	ReportUC      *usecase.ReportUseCase
	CompanyUC     *usecase.CompanyUseCase
	JWTSecret     string
	Log           zerolog.Logger
	// SwaggerFile ruta del swagger.json generado por swag; vacío = sin /docs.
	SwaggerFile string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Swagger UI: http://localhost:<port>/docs
	if deps.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    deps.AppName + " API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Todo lo que cuelga de /api requiere Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.Log))

	// Datos de tenant: sin tenant vinculado, 403 TENANT_NOT_BOUND. Va en cada grupo y no
	// en /api porque /api/admin admite principals sin tenant.
	tenantOnly := RequireTenant()

	products := api.Group("/products", tenantOnly)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/stock", productHandler.AdjustStock)
	products.Delete("/:id", productHandler.Delete)

	sales := api.Group("/sales", tenantOnly)
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Register)
	sales.Get("/", saleHandler.List)

	closings := api.Group("/cash-closings", tenantOnly)
	closingHandler := NewCashClosingHandler(deps.CashClosingUC)
	closings.Post("/", closingHandler.Close)
	closings.Get("/", closingHandler.List)

	tasks := api.Group("/tasks", tenantOnly)
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/:id/complete", taskHandler.Complete)

	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/reports/top-products", tenantOnly, reportHandler.TopProducts)

	// Plataforma: principals privilegiados, con o sin tenant
	admin := api.Group("/admin", RequirePrivileged())
	admin.Get("/reports/sales-by-tenant", reportHandler.SalesByTenant)
	admin.Get("/reports/top-products", reportHandler.TopProductsAllTenants)

	companies := admin.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
}
