package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
)

// LocalUserID clave en c.Locals del usuario autenticado.
const LocalUserID = "user_id"

// AuthMiddleware valida el Bearer Token JWT, resuelve el principal y lo vincula al
// contexto de la petición (c.UserContext) junto con un logger de la petición.
// Un token sin tenant solo se acepta para principals privilegiados.
func AuthMiddleware(jwtSecret string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		var tenantID *tenancy.ID
		if id.TenantID != "" {
			tid, err := tenancy.ParseID(id.TenantID)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TENANT", Message: "tenant_id inválido en el token"})
			}
			tenantID = &tid
		}
		principal := tenancy.UserPrincipal(id.UserID, tenantID, id.Privileged)

		reqLog := log.With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user", principal.Subject()).
			Logger()
		if tenantID != nil {
			reqLog = reqLog.With().Str("tenant", tenantID.String()).Logger()
		}
		ctx, err := tenancy.Bind(reqLog.WithContext(c.UserContext()), principal)
		if err != nil {
			reqLog.Warn().Err(err).Msg("principal rechazado")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNBOUND_PRINCIPAL", Message: "el token no está asociado a ningún tenant"})
		}
		c.SetUserContext(ctx)
		c.Locals(LocalUserID, id.UserID)
		return c.Next()
	}
}

// RequirePrivileged corta con 403 si el principal no es de plataforma.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePrivileged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := tenancy.PrincipalFrom(c.UserContext())
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if !p.Privileged {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere un usuario de plataforma"})
		}
		return c.Next()
	}
}

// RequireTenant corta con 403 si la petición no tiene tenant vinculado. Las rutas de
// datos de tenant lo usan para responder antes de llegar a la capa de datos.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !tenancy.FromContext(c.UserContext()).HasTenant() {
			return writeError(c, tenancy.ErrTenantNotBound)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
