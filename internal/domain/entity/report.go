package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// TenantSalesTotal total de ventas agregado por tenant.
type TenantSalesTotal struct {
	TenantID    tenancy.ID
	CompanyName string
	SalesCount  int
	Total       decimal.Decimal
}

// ProductSalesTotal unidades e ingresos por producto.
type ProductSalesTotal struct {
	TenantID  tenancy.ID
	ProductID string
	SKU       string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}
