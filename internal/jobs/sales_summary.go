package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/metrics"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// SalesSummaryJob nombre de la tarea y del principal de sistema con que se ejecuta.
const SalesSummaryJob = "tenant-sales-summary"

// SalesReporter lo que el resumen necesita del caso de uso de reportes.
type SalesReporter interface {
	SalesByTenant(ctx context.Context, period dto.ReportPeriod) (*dto.SalesByTenantResponse, error)
}

// SalesSummary publica el total vendido hoy por cada tenant (log y gauge Prometheus).
type SalesSummary struct {
	reports SalesReporter
	now     func() time.Time
}

// NewSalesSummary construye la tarea.
func NewSalesSummary(reports SalesReporter) *SalesSummary {
	return &SalesSummary{reports: reports, now: func() time.Time { return time.Now().UTC() }}
}

// Run ejecuta un resumen. El ctx de entrada no debe traer principal: se vincula el de sistema.
func (j *SalesSummary) Run(ctx context.Context) error {
	ctx, err := tenancy.Bind(ctx, tenancy.SystemPrincipal("jobs."+SalesSummaryJob))
	if err != nil {
		metrics.ObserveJobRun(SalesSummaryJob, "error")
		return fmt.Errorf("vincular principal: %w", err)
	}
	now := j.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !startOfDay.Before(now) {
		startOfDay = startOfDay.Add(-24 * time.Hour)
	}

	report, err := j.reports.SalesByTenant(ctx, dto.ReportPeriod{From: startOfDay, To: now})
	if err != nil {
		metrics.ObserveJobRun(SalesSummaryJob, "error")
		return fmt.Errorf("resumen de ventas: %w", err)
	}
	log := zerolog.Ctx(ctx)
	// solo quedan publicados los tenants del resumen actual
	metrics.ResetTenantSales()
	for _, item := range report.Items {
		metrics.SetTenantSales(item.TenantID, item.Total)
		log.Info().
			Str("tenant", item.TenantID).Str("company", item.CompanyName).
			Int("sales", item.SalesCount).Str("total", item.Total.String()).
			Msg("ventas del día por tenant")
	}
	log.Info().Int("tenants", len(report.Items)).Str("grand_total", report.GrandTotal.String()).Msg("resumen de ventas publicado")
	metrics.ObserveJobRun(SalesSummaryJob, "ok")
	return nil
}
