package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
)

// CashClosingHandler cierres de caja.
type CashClosingHandler struct {
	uc *usecase.CashClosingUseCase
}

// NewCashClosingHandler construye el handler.
func NewCashClosingHandler(uc *usecase.CashClosingUseCase) *CashClosingHandler {
	return &CashClosingHandler{uc: uc}
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Compara las ventas en efectivo desde el último cierre con lo contado.
// @Tags         cash-closings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseCashRequest  true  "counted_total, notes"
// @Success      201   {object}  dto.CashClosingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "TENANT_NOT_BOUND: el token no tiene tenant vinculado"
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-closings [post]
func (h *CashClosingHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Close(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cierres de caja
// @Tags         cash-closings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200   {object}  dto.CashClosingListResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "TENANT_NOT_BOUND: el token no tiene tenant vinculado"
// @Router       /api/cash-closings [get]
func (h *CashClosingHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
