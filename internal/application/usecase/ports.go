package usecase

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products     repository.ProductRepository
	Sales        repository.SaleRepository
	CashClosings repository.CashClosingRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
