package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var _ repository.CashClosingRepository = (*CashClosingRepo)(nil)

var cashClosingColumns = []string{
	cashClosingsTable.Col("id"), cashClosingsTable.Col("tenant_id"),
	cashClosingsTable.Col("period_start"), cashClosingsTable.Col("period_end"),
	cashClosingsTable.Col("expected_total"), cashClosingsTable.Col("counted_total"),
	cashClosingsTable.Col("difference"), cashClosingsTable.Col("sales_count"),
	cashClosingsTable.Col("closed_by"), cashClosingsTable.Col("notes"), cashClosingsTable.Col("created_at"),
}

// CashClosingRepo cierres de caja sobre PostgreSQL.
type CashClosingRepo struct {
	db *ScopedDB
}

// NewCashClosingRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCashClosingRepository(q Querier) *CashClosingRepo {
	return &CashClosingRepo{db: NewScopedDB(q)}
}

// Create persiste un cierre.
func (r *CashClosingRepo) Create(ctx context.Context, c *entity.CashClosing) error {
	_, err := r.db.Insert(ctx, Insert{
		Table: cashClosingsTable,
		Row:   c,
		Columns: []string{
			"id", "period_start", "period_end", "expected_total", "counted_total",
			"difference", "sales_count", "closed_by", "notes", "created_at",
		},
		Values: []any{
			c.ID, c.PeriodStart, c.PeriodEnd, c.ExpectedTotal, c.CountedTotal,
			c.Difference, c.SalesCount, c.ClosedBy, c.Notes, c.CreatedAt,
		},
	})
	if err != nil {
		if isUniqueViolation(err) {
			// otro cierre concurrente ya abrió este periodo
			return fmt.Errorf("insert cash closing: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert cash closing: %w", err)
	}
	return nil
}

// Last último cierre del tenant. Dentro de una transacción la fila queda bloqueada
// hasta el commit, así dos cierres del mismo tenant se serializan.
func (r *CashClosingRepo) Last(ctx context.Context) (*entity.CashClosing, error) {
	c, err := scanCashClosing(r.db.QueryRow(ctx, Select{
		Columns:   cashClosingColumns,
		From:      cashClosingsTable,
		OrderBy:   cashClosingsTable.Col("period_end") + " DESC",
		Limit:     1,
		ForUpdate: true,
	}))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("last cash closing: %w", err)
	}
	return c, nil
}

// List cierres más recientes primero.
func (r *CashClosingRepo) List(ctx context.Context, limit, offset int) ([]*entity.CashClosing, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: cashClosingColumns,
		From:    cashClosingsTable,
		OrderBy: cashClosingsTable.Col("period_end") + " DESC",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list cash closings: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashClosing
	for rows.Next() {
		c, err := scanCashClosing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash closing: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCashClosing(row pgx.Row) (*entity.CashClosing, error) {
	var c entity.CashClosing
	var tenantID string
	if err := row.Scan(&c.ID, &tenantID, &c.PeriodStart, &c.PeriodEnd, &c.ExpectedTotal,
		&c.CountedTotal, &c.Difference, &c.SalesCount, &c.ClosedBy, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.TenantID = tenancy.ID(tenantID)
	return &c, nil
}
