package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	ScopeDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_tenant_scope_decisions_total",
		Help: "Operaciones de acceso a datos por modo de alcance (enforced, bypassed, rejected)",
	}, []string{"operation", "table", "mode"})

	IsolationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_tenant_isolation_failures_total",
		Help: "Operaciones rechazadas por el aislamiento de tenants",
	}, []string{"reason"})

	TenantSales = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backoffice_tenant_sales_total",
		Help: "Total de ventas por tenant calculado por el resumen periódico",
	}, []string{"tenant"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_job_runs_total",
		Help: "Ejecuciones de trabajos en segundo plano por resultado",
	}, []string{"job", "result"})
)

// ObserveScope registra la decisión del filtro por tenant para una operación.
func ObserveScope(operation, table, mode string) {
	ScopeDecisions.WithLabelValues(operation, table, mode).Inc()
}

// ObserveIsolationFailure registra una operación rechazada (tenant_not_bound, immutable_tenant...).
func ObserveIsolationFailure(reason string) {
	IsolationFailures.WithLabelValues(reason).Inc()
}

// SetTenantSales publica el total de ventas de un tenant.
func SetTenantSales(tenantID string, total decimal.Decimal) {
	TenantSales.WithLabelValues(tenantID).Set(total.InexactFloat64())
}

// ResetTenantSales borra los totales publicados, ej. de tenants sin ventas en el periodo nuevo.
func ResetTenantSales() {
	TenantSales.Reset()
}

// ObserveJobRun registra una ejecución de trabajo ("ok" / "error").
func ObserveJobRun(job, result string) {
	JobRuns.WithLabelValues(job, result).Inc()
}

// PoolStats estado del pool de conexiones en el momento del scrape.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
}

// RegisterPoolStats registra gauges calculados con stats en cada scrape. Se llama una sola vez por proceso.
func RegisterPoolStats(stats func() PoolStats) {
	gauge := func(name, help string, pick func(PoolStats) int32) {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
			return float64(pick(stats()))
		})
	}
	gauge("backoffice_db_pool_acquired_conns", "Conexiones en uso", func(s PoolStats) int32 { return s.Acquired })
	gauge("backoffice_db_pool_idle_conns", "Conexiones ociosas", func(s PoolStats) int32 { return s.Idle })
	gauge("backoffice_db_pool_total_conns", "Conexiones abiertas", func(s PoolStats) int32 { return s.Total })
}
