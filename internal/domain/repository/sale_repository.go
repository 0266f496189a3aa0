package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas del punto de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.Sale, error)
	// SumSince total y número de ventas con el método de pago indicado en [from, to).
	SumSince(ctx context.Context, paymentMethod string, from, to time.Time) (decimal.Decimal, int, error)
}
