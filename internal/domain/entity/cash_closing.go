package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// CashClosing cierre de caja: compara lo vendido en efectivo desde el cierre
// anterior con lo contado por el cajero.
type CashClosing struct {
	ID string
	tenancy.Owner
	PeriodStart   time.Time
	PeriodEnd     time.Time
	ExpectedTotal decimal.Decimal
	CountedTotal  decimal.Decimal
	Difference    decimal.Decimal // CountedTotal - ExpectedTotal
	SalesCount    int
	ClosedBy      string
	Notes         string
	CreatedAt     time.Time
}
