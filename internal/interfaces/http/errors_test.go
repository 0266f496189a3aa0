package http

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

func TestWriteError_Mapeo(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{tenancy.ErrTenantNotBound, fiber.StatusForbidden, "TENANT_NOT_BOUND"},
		{fmt.Errorf("insert product: %w", tenancy.ErrMissingTenantAssignment), fiber.StatusForbidden, "MISSING_TENANT"},
		{tenancy.ErrImmutableTenantAssignment, fiber.StatusForbidden, "IMMUTABLE_TENANT"},
		{tenancy.ErrCrossTenantAssignment, fiber.StatusForbidden, "CROSS_TENANT"},
		{fmt.Errorf("%w: u1", tenancy.ErrBypassDenied), fiber.StatusForbidden, "BYPASS_DENIED"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{fmt.Errorf("descontar stock: %w", domain.ErrInsufficientStock), fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tc.err) })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
