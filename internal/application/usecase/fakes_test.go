package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Fakes en memoria. Filtran por el tenant de ctx como lo haría ScopedDB,
// así los casos de uso se prueban con el mismo contrato.

type fakeProducts struct {
	items map[string]*entity.Product
}

func newFakeProducts(ps ...*entity.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]*entity.Product{}}
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return f
}

func visible(ctx context.Context, owner tenancy.ID) bool {
	if tenancy.ModeFrom(ctx) == tenancy.Bypassed {
		return true
	}
	id, ok := tenancy.FromContext(ctx).Lookup()
	return ok && id == owner
}

func (f *fakeProducts) Create(ctx context.Context, p *entity.Product) error {
	if err := tenancy.Stamp(ctx, p); err != nil {
		return err
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := f.items[id]
	if !ok || !visible(ctx, p.TenantID) {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range f.items {
		if p.SKU == sku && visible(ctx, p.TenantID) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.items {
		if visible(ctx, p.TenantID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Update(ctx context.Context, p *entity.Product) error {
	stored, ok := f.items[p.ID]
	if !ok || !visible(ctx, stored.TenantID) {
		return domain.ErrNotFound
	}
	if err := tenancy.CheckReassignment(stored.TenantID, p.TenantID); err != nil {
		return err
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) AdjustStock(ctx context.Context, id string, delta int) error {
	p, ok := f.items[id]
	if !ok || !visible(ctx, p.TenantID) {
		return domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	p, ok := f.items[id]
	if !ok || !visible(ctx, p.TenantID) {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeSales struct {
	items []*entity.Sale
}

func (f *fakeSales) Create(ctx context.Context, s *entity.Sale) error {
	if err := tenancy.Stamp(ctx, s); err != nil {
		return err
	}
	f.items = append(f.items, s)
	return nil
}

func (f *fakeSales) List(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range f.items {
		if visible(ctx, s.TenantID) && !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSales) SumSince(ctx context.Context, method string, from, to time.Time) (decimal.Decimal, int, error) {
	total := decimal.Zero
	n := 0
	for _, s := range f.items {
		if visible(ctx, s.TenantID) && s.PaymentMethod == method && !s.SoldAt.Before(from) && s.SoldAt.Before(to) {
			total = total.Add(s.Total)
			n++
		}
	}
	return total, n, nil
}

type fakeClosings struct {
	items []*entity.CashClosing
}

func (f *fakeClosings) Create(ctx context.Context, c *entity.CashClosing) error {
	if err := tenancy.Stamp(ctx, c); err != nil {
		return err
	}
	f.items = append(f.items, c)
	return nil
}

func (f *fakeClosings) Last(ctx context.Context) (*entity.CashClosing, error) {
	var last *entity.CashClosing
	for _, c := range f.items {
		if visible(ctx, c.TenantID) && (last == nil || c.PeriodEnd.After(last.PeriodEnd)) {
			last = c
		}
	}
	return last, nil
}

func (f *fakeClosings) List(ctx context.Context, limit, offset int) ([]*entity.CashClosing, error) {
	var out []*entity.CashClosing
	for _, c := range f.items {
		if visible(ctx, c.TenantID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeTx no tiene rollback real: basta para comprobar el orden de las operaciones.
type fakeTx struct {
	repos TxRepos
	runs  int
}

func (f *fakeTx) Run(ctx context.Context, fn func(TxRepos) error) error {
	f.runs++
	return fn(f.repos)
}

type fakeReports struct {
	sales    []entity.TenantSalesTotal
	products []entity.ProductSalesTotal
	modes    []tenancy.Mode
}

func (f *fakeReports) SalesByTenant(ctx context.Context, from, to time.Time) ([]entity.TenantSalesTotal, error) {
	f.modes = append(f.modes, tenancy.ModeFrom(ctx))
	return f.sales, nil
}

func (f *fakeReports) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSalesTotal, error) {
	f.modes = append(f.modes, tenancy.ModeFrom(ctx))
	var out []entity.ProductSalesTotal
	for _, p := range f.products {
		if visible(ctx, p.TenantID) {
			out = append(out, p)
		}
	}
	return out, nil
}
