package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/metrics"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// ScopedDB decora un Querier: cada sentencia sobre tablas de tenant recibe el
// predicado tenant_id = <tenant del ctx> antes de llegar a la base de datos, salvo
// dentro de tenancy.WithoutScope. Los repositorios solo acceden a datos por aquí.
type ScopedDB struct {
	q Querier
}

// NewScopedDB envuelve un pool o una transacción.
func NewScopedDB(q Querier) *ScopedDB {
	return &ScopedDB{q: q}
}

// Query ejecuta un Select.
func (db *ScopedDB) Query(ctx context.Context, s Select) (pgx.Rows, error) {
	sql, args, err := buildSelect(ctx, s)
	observe(ctx, "select", s.From, err)
	if err != nil {
		return nil, err
	}
	return db.q.Query(ctx, sql, args...)
}

// QueryRow ejecuta un Select de una fila. Un error de alcance se devuelve en Scan.
func (db *ScopedDB) QueryRow(ctx context.Context, s Select) pgx.Row {
	sql, args, err := buildSelect(ctx, s)
	observe(ctx, "select", s.From, err)
	if err != nil {
		return errRow{err: err}
	}
	return db.q.QueryRow(ctx, sql, args...)
}

// Insert ejecuta un Insert (con Stamp del tenant en tablas de tenant).
func (db *ScopedDB) Insert(ctx context.Context, in Insert) (pgconn.CommandTag, error) {
	sql, args, err := buildInsert(ctx, in)
	observe(ctx, "insert", in.Table, err)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return db.q.Exec(ctx, sql, args...)
}

// Update ejecuta un Update.
func (db *ScopedDB) Update(ctx context.Context, u Update) (pgconn.CommandTag, error) {
	sql, args, err := buildUpdate(ctx, u)
	observe(ctx, "update", u.Table, err)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	tag, err := db.q.Exec(ctx, sql, args...)
	if isTenantImmutable(err) {
		// el trigger forbid_tenant_change rechazó un cambio de tenant_id
		observe(ctx, "update", u.Table, tenancy.ErrImmutableTenantAssignment)
		return tag, fmt.Errorf("%w: %w", tenancy.ErrImmutableTenantAssignment, err)
	}
	return tag, err
}

// UpdateRow ejecuta un Update sobre la fila idColumn = id. Si no afecta filas
// distingue entre fila inexistente (domain.ErrNotFound) y fila de otro tenant
// (tenancy.ErrImmutableTenantAssignment, solo visible en bypass).
func (db *ScopedDB) UpdateRow(ctx context.Context, u Update, idColumn string, id any) error {
	u.Where = append(append([]Cond(nil), u.Where...), Eq(u.Table.Col(idColumn), id))
	tag, err := db.Update(ctx, u)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if u.Row == nil || !u.Table.Owned() {
		return domain.ErrNotFound
	}
	var stored string
	err = db.QueryRow(ctx, Select{
		Columns: []string{u.Table.Col(u.Table.TenantColumn)},
		From:    u.Table,
		Where:   []Cond{Eq(u.Table.Col(idColumn), id)},
	}).Scan(&stored)
	if err != nil {
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("check owner %s: %w", u.Table.Name, err)
	}
	if err := tenancy.CheckReassignment(tenancy.ID(stored), u.Row.OwnerID()); err != nil {
		observe(ctx, "update", u.Table, err)
		return err
	}
	return domain.ErrNotFound
}

// Delete ejecuta un Delete.
func (db *ScopedDB) Delete(ctx context.Context, d Delete) (pgconn.CommandTag, error) {
	sql, args, err := buildDelete(ctx, d)
	observe(ctx, "delete", d.Table, err)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return db.q.Exec(ctx, sql, args...)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// observe registra la decisión de alcance. Las operaciones en bypass se auditan una a una.
func observe(ctx context.Context, op string, t Table, err error) {
	if err != nil {
		reason := failureReason(err)
		metrics.ObserveScope(op, t.Name, "rejected")
		metrics.ObserveIsolationFailure(reason)
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("op", op).Str("table", t.Name).Str("reason", reason).
			Msg("operación rechazada por aislamiento de tenant")
		return
	}
	mode := tenancy.ModeFrom(ctx)
	metrics.ObserveScope(op, t.Name, mode.String())
	if info, ok := tenancy.BypassFrom(ctx); ok && t.Owned() {
		zerolog.Ctx(ctx).Info().
			Str("op", op).Str("table", t.Name).
			Str("principal", info.Principal.Subject()).Str("reason", info.Reason).
			Msg("operación sin filtro de tenant")
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, tenancy.ErrTenantNotBound):
		return "tenant_not_bound"
	case errors.Is(err, tenancy.ErrMissingTenantAssignment):
		return "missing_tenant"
	case errors.Is(err, tenancy.ErrImmutableTenantAssignment):
		return "immutable_tenant"
	case errors.Is(err, tenancy.ErrCrossTenantAssignment):
		return "cross_tenant"
	default:
		return "invalid_statement"
	}
}
