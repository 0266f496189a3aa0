package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

var companyColumns = []string{
	companiesTable.Col("id"), companiesTable.Col("name"), companiesTable.Col("tax_id"),
	companiesTable.Col("email"), companiesTable.Col("status"),
	companiesTable.Col("created_at"), companiesTable.Col("updated_at"),
}

// CompanyRepo directorio de tenants. companies es tabla compartida: ScopedDB no le
// añade predicado y el acceso se restringe en HTTP (RequirePrivileged).
type CompanyRepo struct {
	db *ScopedDB
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{db: NewScopedDB(q)}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	_, err := r.db.Insert(ctx, Insert{
		Table:   companiesTable,
		Columns: []string{"id", "name", "tax_id", "email", "status", "created_at", "updated_at"},
		Values: []any{
			company.ID, company.Name, company.TaxID, company.Email, company.Status,
			company.CreatedAt, company.UpdatedAt,
		},
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, Select{
		Columns: companyColumns,
		From:    companiesTable,
		Where:   []Cond{Eq(companiesTable.Col("id"), id)},
	}))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.db.Query(ctx, Select{
		Columns: companyColumns,
		From:    companiesTable,
		OrderBy: companiesTable.Col("name"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
