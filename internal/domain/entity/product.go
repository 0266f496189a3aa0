package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Product producto del inventario de un tenant.
type Product struct {
	ID string
	tenancy.Owner
	SKU         string // único por tenant
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
