package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Motivos de bypass registrados en la auditoría.
const (
	ReasonSalesByTenant    = "report.sales-by-tenant"
	ReasonTopProductsAll   = "report.top-products-all-tenants"
	defaultReportWindow    = 30 * 24 * time.Hour
	defaultTopProductLimit = 10
)

// ReportUseCase reportes de ventas. Los reportes entre tenants abren un bypass explícito;
// sin privilegio fallan con tenancy.ErrBypassDenied.
type ReportUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// SalesByTenant totales de ventas de todos los tenants en el periodo.
func (uc *ReportUseCase) SalesByTenant(ctx context.Context, period dto.ReportPeriod) (*dto.SalesByTenantResponse, error) {
	from, to, err := uc.window(period)
	if err != nil {
		return nil, err
	}
	totals, err := tenancy.WithoutScope(ctx, ReasonSalesByTenant, func(ctx context.Context) ([]entity.TenantSalesTotal, error) {
		return uc.repo.SalesByTenant(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SalesByTenantResponse{From: from, To: to, Items: make([]dto.TenantSalesItem, 0, len(totals)), GrandTotal: decimal.Zero}
	for _, t := range totals {
		out.Items = append(out.Items, dto.TenantSalesItem{
			TenantID:    t.TenantID.String(),
			CompanyName: t.CompanyName,
			SalesCount:  t.SalesCount,
			Total:       t.Total,
		})
		out.GrandTotal = out.GrandTotal.Add(t.Total)
	}
	return out, nil
}

// TopProducts productos más vendidos. allTenants abre un bypass; si no, el reporte
// queda acotado al tenant de ctx.
func (uc *ReportUseCase) TopProducts(ctx context.Context, period dto.ReportPeriod, limit int, allTenants bool) (*dto.TopProductsResponse, error) {
	from, to, err := uc.window(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = defaultTopProductLimit
	}
	query := func(ctx context.Context) ([]entity.ProductSalesTotal, error) {
		return uc.repo.TopProducts(ctx, from, to, limit)
	}
	var rows []entity.ProductSalesTotal
	if allTenants {
		rows, err = tenancy.WithoutScope(ctx, ReasonTopProductsAll, query)
	} else {
		rows, err = query(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.TopProductsResponse{From: from, To: to, Items: make([]dto.TopProductItem, 0, len(rows))}
	for _, r := range rows {
		out.Items = append(out.Items, dto.TopProductItem{
			TenantID:  r.TenantID.String(),
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.Name,
			Units:     r.Units,
			Revenue:   r.Revenue,
		})
	}
	return out, nil
}

func (uc *ReportUseCase) window(p dto.ReportPeriod) (time.Time, time.Time, error) {
	to := p.To
	if to.IsZero() {
		to = uc.now()
	}
	from := p.From
	if from.IsZero() {
		from = to.Add(-defaultReportWindow)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return from, to, nil
}
