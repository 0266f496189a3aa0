package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportPeriod rango [From, To) de un reporte. Vacío = últimos 30 días.
type ReportPeriod struct {
	From time.Time
	To   time.Time
}

// TenantSalesItem total de ventas de un tenant.
type TenantSalesItem struct {
	TenantID    string          `json:"tenant_id"`
	CompanyName string          `json:"company_name"`
	SalesCount  int             `json:"sales_count"`
	Total       decimal.Decimal `json:"total"`
}

// SalesByTenantResponse reporte de ventas por tenant.
type SalesByTenantResponse struct {
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Items      []TenantSalesItem `json:"items"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
}

// TopProductItem producto con sus unidades e ingresos en el periodo.
type TopProductItem struct {
	TenantID  string          `json:"tenant_id"`
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopProductsResponse reporte de productos más vendidos.
type TopProductsResponse struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	Items []TopProductItem `json:"items"`
}
