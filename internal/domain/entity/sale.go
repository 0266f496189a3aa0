package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Métodos de pago aceptados en el punto de venta.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale venta registrada en el punto de venta.
type Sale struct {
	ID string
	tenancy.Owner
	ProductID     string
	Quantity      int
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	SoldBy        string
	SoldAt        time.Time
}
