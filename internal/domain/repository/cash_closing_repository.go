package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CashClosingRepository puerto de persistencia para cierres de caja.
type CashClosingRepository interface {
	Create(ctx context.Context, closing *entity.CashClosing) error
	// Last último cierre del tenant; nil si no hay.
	Last(ctx context.Context) (*entity.CashClosing, error)
	List(ctx context.Context, limit, offset int) ([]*entity.CashClosing, error)
}
