package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los repositorios traducen a errores de dominio.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	// lanzado por el trigger forbid_tenant_change (migrations/0001_init.sql)
	pgTenantImmutable = "TN001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation (ej. SKU repetido dentro del tenant).
func isUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// isForeignKeyViolation fila referenciada inexistente o todavía referenciada.
func isForeignKeyViolation(err error) bool { return pgCode(err) == pgForeignKeyViolation }

// isTenantImmutable la base de datos rechazó un UPDATE que cambiaba tenant_id.
func isTenantImmutable(err error) bool { return pgCode(err) == pgTenantImmutable }

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
