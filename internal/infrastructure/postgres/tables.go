package postgres

import (
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Entidades de tenant: deben embeber tenancy.Owner.
var (
	_ tenancy.Owned = (*entity.Product)(nil)
	_ tenancy.Owned = (*entity.Sale)(nil)
	_ tenancy.Owned = (*entity.CashClosing)(nil)
	_ tenancy.Owned = (*entity.Task)(nil)
)

// Registro de tablas. Toda tabla con tenant_id se declara con OwnedTable.
var (
	productsTable     = OwnedTable("products", "p")
	salesTable        = OwnedTable("sales", "s")
	cashClosingsTable = OwnedTable("cash_closings", "cc")
	tasksTable        = OwnedTable("tasks", "t")
	companiesTable    = SharedTable("companies", "c")
)
