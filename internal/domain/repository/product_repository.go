package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product.
// Todas las operaciones quedan acotadas al tenant de ctx.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock; falla con domain.ErrInsufficientStock si quedaría negativo.
	AdjustStock(ctx context.Context, productID string, delta int) error
	Delete(ctx context.Context, id string) error
}
