package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/usecase"
)

// ReportHandler reportes de ventas.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesByTenant godoc
// @Summary      Ventas por tenant
// @Description  Agrega todos los tenants. Solo usuarios de plataforma.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin (RFC3339 o YYYY-MM-DD)"
// @Success      200   {object}  dto.SalesByTenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "FORBIDDEN / BYPASS_DENIED: se requiere un usuario de plataforma"
// @Router       /api/admin/reports/sales-by-tenant [get]
func (h *ReportHandler) SalesByTenant(c *fiber.Ctx) error {
	per, ok := period(c)
	if !ok {
		return badRequest(c, "VALIDATION", "from/to deben ser RFC3339 o YYYY-MM-DD")
	}
	out, err := h.uc.SalesByTenant(c.UserContext(), per)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos del tenant
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin (RFC3339 o YYYY-MM-DD)"
// @Param        limit  query  int  false  "Máximo de productos (default 10)"
// @Success      200   {object}  dto.TopProductsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "TENANT_NOT_BOUND: el token no tiene tenant vinculado"
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	return h.topProducts(c, false)
}

// TopProductsAllTenants godoc
// @Summary      Productos más vendidos de todos los tenants
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin (RFC3339 o YYYY-MM-DD)"
// @Param        limit  query  int  false  "Máximo de productos (default 10)"
// @Success      200   {object}  dto.TopProductsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "FORBIDDEN / BYPASS_DENIED: se requiere un usuario de plataforma"
// @Router       /api/admin/reports/top-products [get]
func (h *ReportHandler) TopProductsAllTenants(c *fiber.Ctx) error {
	return h.topProducts(c, true)
}

func (h *ReportHandler) topProducts(c *fiber.Ctx, allTenants bool) error {
	per, ok := period(c)
	if !ok {
		return badRequest(c, "VALIDATION", "from/to deben ser RFC3339 o YYYY-MM-DD")
	}
	out, err := h.uc.TopProducts(c.UserContext(), per, c.QueryInt("limit", 10), allTenants)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
