package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura. El alcance lo decide ctx:
// con tenant vinculado cada agregado incluye solo ese tenant; en bypass, todos.
type ReportRepo struct {
	db *ScopedDB
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{db: NewScopedDB(q)}
}

// SalesByTenant total de ventas por tenant en [from, to).
func (r *ReportRepo) SalesByTenant(ctx context.Context, from, to time.Time) ([]entity.TenantSalesTotal, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: []string{
			salesTable.Col("tenant_id"),
			companiesTable.Col("name"),
			"COUNT(*)",
			"COALESCE(SUM(" + salesTable.Col("total") + "), 0)",
		},
		From:  salesTable,
		Joins: []Join{InnerJoin(companiesTable, companiesTable.Col("id")+" = "+salesTable.Col("tenant_id"))},
		Where: []Cond{
			Where(salesTable.Col("sold_at")+" >= ?", from),
			Where(salesTable.Col("sold_at")+" < ?", to),
		},
		GroupBy: []string{salesTable.Col("tenant_id"), companiesTable.Col("name")},
		OrderBy: companiesTable.Col("name"),
	})
	if err != nil {
		return nil, fmt.Errorf("sales by tenant: %w", err)
	}
	defer rows.Close()
	var out []entity.TenantSalesTotal
	for rows.Next() {
		var t entity.TenantSalesTotal
		var tenantID string
		if err := rows.Scan(&tenantID, &t.CompanyName, &t.SalesCount, &t.Total); err != nil {
			return nil, fmt.Errorf("scan sales by tenant: %w", err)
		}
		t.TenantID = tenancy.ID(tenantID)
		out = append(out, t)
	}
	return out, rows.Err()
}

// TopProducts productos más vendidos en [from, to). Une dos tablas de tenant:
// ambas reciben su predicado, así una venta nunca se asocia a un producto ajeno.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSalesTotal, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: []string{
			salesTable.Col("tenant_id"),
			productsTable.Col("id"),
			productsTable.Col("sku"),
			productsTable.Col("name"),
			"SUM(" + salesTable.Col("quantity") + ")",
			"SUM(" + salesTable.Col("total") + ")",
		},
		From: salesTable,
		Joins: []Join{InnerJoin(productsTable,
			productsTable.Col("id")+" = "+salesTable.Col("product_id")+
				" AND "+productsTable.Col("tenant_id")+" = "+salesTable.Col("tenant_id"))},
		Where: []Cond{
			Where(salesTable.Col("sold_at")+" >= ?", from),
			Where(salesTable.Col("sold_at")+" < ?", to),
		},
		GroupBy: []string{salesTable.Col("tenant_id"), productsTable.Col("id"), productsTable.Col("sku"), productsTable.Col("name")},
		OrderBy: "SUM(" + salesTable.Col("total") + ") DESC",
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var out []entity.ProductSalesTotal
	for rows.Next() {
		var p entity.ProductSalesTotal
		var tenantID string
		if err := rows.Scan(&tenantID, &p.ProductID, &p.SKU, &p.Name, &p.Units, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan top products: %w", err)
		}
		p.TenantID = tenancy.ID(tenantID)
		out = append(out, p)
	}
	return out, rows.Err()
}
