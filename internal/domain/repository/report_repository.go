package repository

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ReportRepository consultas agregadas de solo lectura.
// Con filtro activo devuelven solo el tenant de ctx; dentro de tenancy.WithoutScope, todos.
type ReportRepository interface {
	SalesByTenant(ctx context.Context, from, to time.Time) ([]entity.TenantSalesTotal, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSalesTotal, error)
}
