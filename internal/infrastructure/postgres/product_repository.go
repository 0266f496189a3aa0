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

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	productsTable.Col("id"), productsTable.Col("tenant_id"), productsTable.Col("sku"),
	productsTable.Col("name"), productsTable.Col("description"), productsTable.Col("price"),
	productsTable.Col("stock"), productsTable.Col("created_at"), productsTable.Col("updated_at"),
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	db *ScopedDB
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{db: NewScopedDB(q)}
}

// Create persiste un nuevo producto; el tenant lo asigna Stamp.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	_, err := r.db.Insert(ctx, Insert{
		Table:   productsTable,
		Row:     product,
		Columns: []string{"id", "sku", "name", "description", "price", "stock", "created_at", "updated_at"},
		Values: []any{
			product.ID, product.SKU, product.Name, product.Description,
			product.Price, product.Stock, product.CreatedAt, product.UpdatedAt,
		},
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. nil si no existe en el tenant.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, Select{
		Columns: productColumns,
		From:    productsTable,
		Where:   []Cond{Eq(productsTable.Col("id"), id)},
	}))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU dentro del tenant.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, Select{
		Columns: productColumns,
		From:    productsTable,
		Where:   []Cond{Eq(productsTable.Col("sku"), sku)},
	}))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: productColumns,
		From:    productsTable,
		OrderBy: productsTable.Col("created_at") + " DESC",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza datos descriptivos. El stock se maneja con AdjustStock y el tenant no cambia nunca.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	err := r.db.UpdateRow(ctx, Update{
		Table: productsTable,
		Row:   product,
		Set: []Assign{
			Set("name", product.Name),
			Set("description", product.Description),
			Set("price", product.Price),
			Set("updated_at", product.UpdatedAt),
		},
	}, "id", product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// AdjustStock suma delta al stock sin dejarlo negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID string, delta int) error {
	tag, err := r.db.Update(ctx, Update{
		Table: productsTable,
		Set: []Assign{
			SetExpr("stock", "stock + ?", delta),
			SetExpr("updated_at", "now()"),
		},
		Where: []Cond{
			Eq(productsTable.Col("id"), productID),
			Where(productsTable.Col("stock")+" + ? >= 0", delta),
		},
	})
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// Delete elimina un producto del tenant. Un producto con ventas no se borra (ErrConflict).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Delete(ctx, Delete{
		Table: productsTable,
		Where: []Cond{Eq(productsTable.Col("id"), id)},
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete product: tiene ventas: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var tenantID string
	if err := row.Scan(&p.ID, &tenantID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.TenantID = tenancy.ID(tenantID)
	return &p, nil
}
