package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Los errores de aislamiento nunca se convierten en 200 vacío ni en 404.
var errorMappings = []errorMapping{
	{tenancy.ErrTenantNotBound, fiber.StatusForbidden, "TENANT_NOT_BOUND", "la operación requiere un tenant"},
	{tenancy.ErrMissingTenantAssignment, fiber.StatusForbidden, "MISSING_TENANT", "el registro no tiene tenant asignado"},
	{tenancy.ErrImmutableTenantAssignment, fiber.StatusForbidden, "IMMUTABLE_TENANT", "el tenant de un registro no se puede cambiar"},
	{tenancy.ErrCrossTenantAssignment, fiber.StatusForbidden, "CROSS_TENANT", "no se pueden crear registros para otro tenant"},
	{tenancy.ErrBypassDenied, fiber.StatusForbidden, "BYPASS_DENIED", "operación reservada a usuarios de plataforma"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"},
}

// writeError traduce un error de caso de uso a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message})
}
