package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
)

// SaleHandler punto de venta.
type SaleHandler struct {
	uc *usecase.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Descuenta stock y registra la venta en una transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "product_id, quantity, payment_method"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "TENANT_NOT_BOUND: el token no tiene tenant vinculado"
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas del tenant
// @Description  Por defecto, los últimos 30 días.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio (RFC3339 o YYYY-MM-DD)"
// @Param        to    query  string  false  "Fin (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int  false  "Máximo de resultados (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200   {object}  dto.SaleListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "TENANT_NOT_BOUND: el token no tiene tenant vinculado"
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	per, ok := period(c)
	if !ok {
		return badRequest(c, "VALIDATION", "from/to deben ser RFC3339 o YYYY-MM-DD")
	}
	if per.To.IsZero() {
		per.To = time.Now().UTC()
	}
	if per.From.IsZero() {
		per.From = per.To.AddDate(0, 0, -30)
	}
	p := page(c)
	out, err := h.uc.List(c.UserContext(), per.From, per.To, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
