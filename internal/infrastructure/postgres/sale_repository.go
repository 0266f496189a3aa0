package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

var saleColumns = []string{
	salesTable.Col("id"), salesTable.Col("tenant_id"), salesTable.Col("product_id"),
	salesTable.Col("quantity"), salesTable.Col("unit_price"), salesTable.Col("total"),
	salesTable.Col("payment_method"), salesTable.Col("sold_by"), salesTable.Col("sold_at"),
}

// SaleRepo ventas del punto de venta sobre PostgreSQL.
type SaleRepo struct {
	db *ScopedDB
}

// NewSaleRepository construye el adaptador. Acepta pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{db: NewScopedDB(q)}
}

// Create registra una venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.db.Insert(ctx, Insert{
		Table:   salesTable,
		Row:     sale,
		Columns: []string{"id", "product_id", "quantity", "unit_price", "total", "payment_method", "sold_by", "sold_at"},
		Values: []any{
			sale.ID, sale.ProductID, sale.Quantity, sale.UnitPrice, sale.Total,
			sale.PaymentMethod, sale.SoldBy, sale.SoldAt,
		},
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert sale: producto %s: %w", sale.ProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List ventas en [from, to), más recientes primero.
func (r *SaleRepo) List(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: saleColumns,
		From:    salesTable,
		Where: []Cond{
			Where(salesTable.Col("sold_at")+" >= ?", from),
			Where(salesTable.Col("sold_at")+" < ?", to),
		},
		OrderBy: salesTable.Col("sold_at") + " DESC",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SumSince suma las ventas con paymentMethod en [from, to).
func (r *SaleRepo) SumSince(ctx context.Context, paymentMethod string, from, to time.Time) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var count int
	err := r.db.QueryRow(ctx, Select{
		Columns: []string{"COALESCE(SUM(" + salesTable.Col("total") + "), 0)", "COUNT(*)"},
		From:    salesTable,
		Where: []Cond{
			Eq(salesTable.Col("payment_method"), paymentMethod),
			Where(salesTable.Col("sold_at")+" >= ?", from),
			Where(salesTable.Col("sold_at")+" < ?", to),
		},
	}).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("sum sales: %w", err)
	}
	return total, count, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var tenantID string
	if err := row.Scan(&s.ID, &tenantID, &s.ProductID, &s.Quantity, &s.UnitPrice, &s.Total,
		&s.PaymentMethod, &s.SoldBy, &s.SoldAt); err != nil {
		return nil, err
	}
	s.TenantID = tenancy.ID(tenantID)
	return &s, nil
}
