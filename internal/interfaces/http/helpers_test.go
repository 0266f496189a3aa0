package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
	pkgjwt "github.com/jhoicas/backoffice-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "backoffice-test"
	testExpMin    = 60
	tenantA       = "00000000-0000-0000-0000-00000000000a"
	tenantB       = "00000000-0000-0000-0000-00000000000b"
)

// tokenFor genera un header Authorization para la identidad indicada.
func tokenFor(t *testing.T, userID, tenantID string, privileged bool) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: userID, TenantID: tenantID, Privileged: privileged}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza la petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, path, authHeader, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// memProducts repositorio en memoria que respeta el tenant de ctx.
type memProducts struct {
	mu    sync.Mutex
	items map[string]*entity.Product
}

func owns(ctx context.Context, id tenancy.ID) bool {
	tid, ok := tenancy.FromContext(ctx).Lookup()
	return ok && tid == id
}

func (m *memProducts) Create(ctx context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := tenancy.Stamp(ctx, p); err != nil {
		return err
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.items[id]; ok && owns(ctx, p.TenantID) {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProducts) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.SKU == sku && owns(ctx, p.TenantID) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProducts) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, p := range m.items {
		if owns(ctx, p.TenantID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(ctx context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) AdjustStock(ctx context.Context, id string, delta int) error {
	return domain.ErrNotFound
}

func (m *memProducts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || !owns(ctx, p.TenantID) {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// memReports devuelve un total por tenant conocido.
type memReports struct{}

func (memReports) SalesByTenant(ctx context.Context, from, to time.Time) ([]entity.TenantSalesTotal, error) {
	return []entity.TenantSalesTotal{
		{TenantID: tenancy.ID(tenantA), CompanyName: "Tienda A", SalesCount: 1},
		{TenantID: tenancy.ID(tenantB), CompanyName: "Tienda B", SalesCount: 2},
	}, nil
}

func (memReports) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.ProductSalesTotal, error) {
	return nil, nil
}

// memCompanies directorio de tenants en memoria (tabla compartida).
type memCompanies struct {
	mu    sync.Mutex
	items []*entity.Company
}

func (m *memCompanies) Create(ctx context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, c)
	return nil
}

func (m *memCompanies) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCompanies) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Company(nil), m.items...), nil
}

// buildApp monta el router completo con repositorios en memoria.
func buildApp() *fiber.App {
	return buildAppWith(func(*apphttp.RouterDeps) {})
}

func buildAppWith(opt func(*apphttp.RouterDeps)) *fiber.App {
	app := fiber.New()
	deps := apphttp.RouterDeps{
		AppName:   "backoffice-test",
		ProductUC: usecase.NewProductUseCase(&memProducts{items: map[string]*entity.Product{}}),
		ReportUC:  usecase.NewReportUseCase(memReports{}),
		CompanyUC: usecase.NewCompanyUseCase(&memCompanies{}),
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	}
	opt(&deps)
	apphttp.Router(app, deps)
	return app
}
