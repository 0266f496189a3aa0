package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/metrics"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// MockSalesReporter mock de SalesReporter.
type MockSalesReporter struct {
	mock.Mock
}

func (m *MockSalesReporter) SalesByTenant(ctx context.Context, period dto.ReportPeriod) (*dto.SalesByTenantResponse, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SalesByTenantResponse), args.Error(1)
}

type SalesSummaryTestSuite struct {
	suite.Suite
	reporter *MockSalesReporter
	job      *SalesSummary
	logs     *bytes.Buffer
	ctx      context.Context
	now      time.Time
}

func (s *SalesSummaryTestSuite) SetupTest() {
	s.reporter = new(MockSalesReporter)
	s.job = NewSalesSummary(s.reporter)
	s.now = time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	s.job.now = func() time.Time { return s.now }
	s.logs = &bytes.Buffer{}
	s.ctx = zerolog.New(s.logs).WithContext(context.Background())
}

func (s *SalesSummaryTestSuite) TestRun_PublicaTotalesPorTenant() {
	tenant := "00000000-0000-0000-0000-0000000000c1"
	s.reporter.On("SalesByTenant", mock.MatchedBy(func(ctx context.Context) bool {
		p, ok := tenancy.PrincipalFrom(ctx)
		return ok && p.IsSystem() && p.Privileged
	}), dto.ReportPeriod{From: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), To: s.now}).
		Return(&dto.SalesByTenantResponse{
			Items:      []dto.TenantSalesItem{{TenantID: tenant, CompanyName: "Tienda C", SalesCount: 3, Total: decimal.NewFromInt(4200)}},
			GrandTotal: decimal.NewFromInt(4200),
		}, nil)

	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues(SalesSummaryJob, "ok"))
	s.Require().NoError(s.job.Run(s.ctx))

	s.reporter.AssertExpectations(s.T())
	s.Equal(4200.0, testutil.ToFloat64(metrics.TenantSales.WithLabelValues(tenant)))
	s.Equal(before+1, testutil.ToFloat64(metrics.JobRuns.WithLabelValues(SalesSummaryJob, "ok")))
	s.Contains(s.logs.String(), "Tienda C")
}

func (s *SalesSummaryTestSuite) TestRun_RetiraTenantsSinVentas() {
	stale := "00000000-0000-0000-0000-0000000000c9"
	metrics.SetTenantSales(stale, decimal.NewFromInt(99))
	s.reporter.On("SalesByTenant", mock.Anything, mock.Anything).
		Return(&dto.SalesByTenantResponse{
			Items: []dto.TenantSalesItem{
				{TenantID: "00000000-0000-0000-0000-0000000000c1", CompanyName: "Tienda C", SalesCount: 1, Total: decimal.NewFromInt(10)},
				{TenantID: "00000000-0000-0000-0000-0000000000c2", CompanyName: "Tienda D", SalesCount: 2, Total: decimal.NewFromInt(20)},
			},
			GrandTotal: decimal.NewFromInt(30),
		}, nil)

	s.Require().NoError(s.job.Run(s.ctx))

	s.Equal(2, testutil.CollectAndCount(metrics.TenantSales))
	s.Equal(20.0, testutil.ToFloat64(metrics.TenantSales.WithLabelValues("00000000-0000-0000-0000-0000000000c2")))
}

func (s *SalesSummaryTestSuite) TestRun_ErrorConservaLosTotalesAnteriores() {
	tenant := "00000000-0000-0000-0000-0000000000c5"
	metrics.ResetTenantSales()
	metrics.SetTenantSales(tenant, decimal.NewFromInt(5))
	s.reporter.On("SalesByTenant", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	s.Error(s.job.Run(s.ctx))
	s.Equal(1, testutil.CollectAndCount(metrics.TenantSales))
}

func (s *SalesSummaryTestSuite) TestRun_PropagaErrorDelReporte() {
	s.reporter.On("SalesByTenant", mock.Anything, mock.Anything).Return(nil, errors.New("db caída"))

	err := s.job.Run(s.ctx)
	s.Error(err)
	s.Contains(err.Error(), "db caída")
}

func (s *SalesSummaryTestSuite) TestRun_CtxConPrincipalPrevioFalla() {
	ctx, err := tenancy.Bind(s.ctx, tenancy.UserPrincipal("u1", nil, true))
	s.Require().NoError(err)

	s.Error(s.job.Run(ctx))
	s.reporter.AssertNotCalled(s.T(), "SalesByTenant", mock.Anything, mock.Anything)
}

func TestSalesSummaryTestSuite(t *testing.T) {
	suite.Run(t, new(SalesSummaryTestSuite))
}

func TestScheduler_RegistraYRechazaDuplicados(t *testing.T) {
	s, err := NewScheduler(zerolog.Nop())
	require.NoError(t, err)

	run := func(context.Context) error { return nil }
	require.NoError(t, s.Every(SalesSummaryJob, time.Hour, run))
	assert.Error(t, s.Every(SalesSummaryJob, time.Hour, run))
	assert.Equal(t, []string{SalesSummaryJob}, s.Jobs())
	s.Start()
	require.NoError(t, s.Stop())
}

func TestScheduler_EjecutaTareaConLogger(t *testing.T) {
	s, err := NewScheduler(zerolog.Nop())
	require.NoError(t, err)

	done := make(chan bool, 1)
	require.NoError(t, s.Every("muestra", 10*time.Millisecond, func(ctx context.Context) error {
		_, hasPrincipal := tenancy.PrincipalFrom(ctx)
		select {
		case done <- hasPrincipal:
		default:
		}
		return nil
	}))
	s.Start()
	defer func() { _ = s.Stop() }()

	select {
	case hasPrincipal := <-done:
		assert.False(t, hasPrincipal, "las tareas arrancan sin principal")
	case <-time.After(2 * time.Second):
		t.Fatal("la tarea no se ejecutó")
	}
}

func TestScheduler_StopCancelaTareaEnCurso(t *testing.T) {
	s, err := NewScheduler(zerolog.Nop(), gocron.WithStopTimeout(5*time.Second))
	require.NoError(t, err)

	started := make(chan struct{})
	cancelled := make(chan error, 1)
	var once sync.Once
	require.NoError(t, s.Every("bloqueante", 10*time.Millisecond, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		select {
		case cancelled <- ctx.Err():
		default:
		}
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("la tarea no arrancó")
	}
	begin := time.Now()
	require.NoError(t, s.Stop())
	assert.Less(t, time.Since(begin), 5*time.Second)

	select {
	case err := <-cancelled:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Stop no canceló el ctx de la tarea")
	}
}
