package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var (
	tenantA = tenancy.MustParseID("00000000-0000-0000-0000-00000000000a")
	tenantB = tenancy.MustParseID("00000000-0000-0000-0000-00000000000b")
)

func ctxTenant(t *testing.T, id tenancy.ID) context.Context {
	t.Helper()
	ctx, err := tenancy.Bind(context.Background(), tenancy.UserPrincipal("u-"+id.String(), &id, false))
	require.NoError(t, err)
	return ctx
}

func ctxOperator(t *testing.T) context.Context {
	t.Helper()
	ctx, err := tenancy.Bind(context.Background(), tenancy.UserPrincipal("ops", nil, true))
	require.NoError(t, err)
	return ctx
}

// inBypass ejecuta fn con el ctx de bypass de un principal de sistema.
func inBypass(t *testing.T, fn func(ctx context.Context)) {
	t.Helper()
	ctx, err := tenancy.Bind(context.Background(), tenancy.SystemPrincipal("test"))
	require.NoError(t, err)
	require.NoError(t, tenancy.RunWithoutScope(ctx, "test.bypass", func(ctx context.Context) error {
		fn(ctx)
		return nil
	}))
}

// ─── Select ──────────────────────────────────────────────────────────────────

func TestBuildSelect_AñadePredicadoDeTenant(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantB), Select{
		Columns: []string{"p.id"},
		From:    productsTable,
		Where:   []Cond{Eq("p.sku", "W-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM products p WHERE (p.sku = $1) AND (p.tenant_id = $2)", sql)
	assert.Equal(t, []any{"W-1", tenantB.String()}, args)
}

func TestBuildSelect_OrDelLlamadorQuedaEncerrado(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"p.id"},
		From:    productsTable,
		Where:   []Cond{Where("p.sku = ? OR p.name = ?", "a", "b")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM products p WHERE (p.sku = $1 OR p.name = $2) AND (p.tenant_id = $3)", sql)
	assert.Equal(t, []any{"a", "b", tenantA.String()}, args)
}

func TestBuildSelect_JoinFiltraAmbasTablas(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"s.id", "p.name"},
		From:    salesTable,
		Joins:   []Join{InnerJoin(productsTable, "p.id = s.product_id")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT s.id, p.name FROM sales s JOIN products p ON (p.id = s.product_id) AND p.tenant_id = $1 WHERE (s.tenant_id = $2)", sql)
	assert.Equal(t, []any{tenantA.String(), tenantA.String()}, args)
}

func TestBuildSelect_LeftJoinConTablaCompartida(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"s.id", "c.name"},
		From:    salesTable,
		Joins:   []Join{LeftJoin(companiesTable, "c.id = s.tenant_id")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT s.id, c.name FROM sales s LEFT JOIN companies c ON (c.id = s.tenant_id) WHERE (s.tenant_id = $1)", sql)
	assert.Equal(t, []any{tenantA.String()}, args)
}

func TestBuildSelect_AgregadoConGroupByYLimit(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"s.tenant_id", "COUNT(*)"},
		From:    salesTable,
		GroupBy: []string{"s.tenant_id"},
		OrderBy: "COUNT(*) DESC",
		Limit:   5,
		Offset:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT s.tenant_id, COUNT(*) FROM sales s WHERE (s.tenant_id = $1) GROUP BY s.tenant_id ORDER BY COUNT(*) DESC LIMIT 5 OFFSET 10", sql)
	assert.Equal(t, []any{tenantA.String()}, args)
}

func TestBuildSelect_SinTenantFalla(t *testing.T) {
	for name, ctx := range map[string]context.Context{
		"sin principal":       context.Background(),
		"operador sin tenant": ctxOperator(t),
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := buildSelect(ctx, Select{Columns: []string{"p.id"}, From: productsTable})
			assert.ErrorIs(t, err, tenancy.ErrTenantNotBound)
		})
	}
}

func TestBuildSelect_TablaCompartidaNoNecesitaTenant(t *testing.T) {
	sql, args, err := buildSelect(ctxOperator(t), Select{Columns: []string{"c.id"}, From: companiesTable})
	require.NoError(t, err)
	assert.Equal(t, "SELECT c.id FROM companies c", sql)
	assert.Empty(t, args)
}

func TestBuildSelect_JoinConTablaDeTenantExigeTenant(t *testing.T) {
	_, _, err := buildSelect(ctxOperator(t), Select{
		Columns: []string{"c.id"},
		From:    companiesTable,
		Joins:   []Join{InnerJoin(salesTable, "s.tenant_id = c.id")},
	})
	assert.ErrorIs(t, err, tenancy.ErrTenantNotBound)
}

func TestBuildSelect_BypassSinPredicado(t *testing.T) {
	inBypass(t, func(ctx context.Context) {
		sql, args, err := buildSelect(ctx, Select{
			Columns: []string{"p.id"},
			From:    productsTable,
			Where:   []Cond{Eq("p.sku", "W-1")},
		})
		require.NoError(t, err)
		assert.Equal(t, "SELECT p.id FROM products p WHERE (p.sku = $1)", sql)
		assert.Equal(t, []any{"W-1"}, args)
	})
}

func TestBuildSelect_ArgumentosDescuadrados(t *testing.T) {
	_, _, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"p.id"},
		From:    productsTable,
		Where:   []Cond{Where("p.id = ?")},
	})
	assert.Error(t, err)
}

func TestBuildSelect_InterrogacionLiteral(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"p.id"},
		From:    productsTable,
		Where:   []Cond{Where("p.name LIKE '%??%' AND p.sku = ?", "W-1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.id FROM products p WHERE (p.name LIKE '%?%' AND p.sku = $1) AND (p.tenant_id = $2)", sql)
	assert.Equal(t, []any{"W-1", tenantA.String()}, args)

	_, _, err = buildSelect(ctxTenant(t, tenantA), Select{
		Columns: []string{"p.id"},
		From:    productsTable,
		Where:   []Cond{Where("p.name LIKE '%?%' AND p.sku = ?", "W-1")},
	})
	assert.Error(t, err, "un '?' sin escapar cuenta como placeholder")
}

func TestBuildSelect_ForUpdate(t *testing.T) {
	sql, args, err := buildSelect(ctxTenant(t, tenantA), Select{
		Columns:   []string{"cc.id"},
		From:      cashClosingsTable,
		OrderBy:   "cc.period_end DESC",
		Limit:     1,
		ForUpdate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT cc.id FROM cash_closings cc WHERE (cc.tenant_id = $1) ORDER BY cc.period_end DESC LIMIT 1 FOR UPDATE", sql)
	assert.Equal(t, []any{tenantA.String()}, args)
}

func TestBuildSelect_NoModificaPredicadosDelLlamador(t *testing.T) {
	where := make([]Cond, 1, 4)
	where[0] = Eq("p.sku", "W-1")
	_, _, err := buildSelect(ctxTenant(t, tenantA), Select{Columns: []string{"p.id"}, From: productsTable, Where: where})
	require.NoError(t, err)
	assert.Len(t, where, 1)
	assert.Empty(t, where[:2][1].SQL, "el predicado de tenant no se escribe en el array del llamador")
}

// ─── Update ──────────────────────────────────────────────────────────────────

func TestBuildUpdate_AcotadoAlTenant(t *testing.T) {
	p := &entity.Product{ID: "1", Owner: tenancy.Owner{TenantID: tenantA}}
	sql, args, err := buildUpdate(ctxTenant(t, tenantA), Update{
		Table: productsTable,
		Set:   []Assign{Set("name", "x")},
		Where: []Cond{Eq("p.id", "1")},
		Row:   p,
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products p SET name = $1 WHERE (p.id = $2) AND (p.tenant_id = $3)", sql)
	assert.Equal(t, []any{"x", "1", tenantA.String()}, args)
}

func TestBuildUpdate_AsignarTenantEsInmutable(t *testing.T) {
	_, _, err := buildUpdate(ctxTenant(t, tenantA), Update{
		Table: productsTable,
		Set:   []Assign{Set("tenant_id", tenantB.String())},
		Where: []Cond{Eq("p.id", "1")},
	})
	assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)
}

func TestBuildUpdate_VariantesDeLaColumnaTenant(t *testing.T) {
	for _, col := range []string{"TENANT_ID", "Tenant_Id", " tenant_id", "tenant_id ", `"tenant_id"`, ` "Tenant_ID" `} {
		t.Run(col, func(t *testing.T) {
			_, _, err := buildUpdate(ctxTenant(t, tenantA), Update{
				Table: productsTable,
				Set:   []Assign{Set(col, tenantB.String())},
				Where: []Cond{Eq("p.id", "1")},
			})
			assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)
		})
	}
	inBypass(t, func(ctx context.Context) {
		_, _, err := buildUpdate(ctx, Update{
			Table: productsTable,
			Set:   []Assign{Set("TENANT_ID", tenantB.String())},
			Where: []Cond{Eq("p.id", "1")},
		})
		assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)
	})
}

func TestBuildUpdate_ColumnaNoSimpleRechazada(t *testing.T) {
	for _, col := range []string{"name = 'x', tenant_id", "p.tenant_id", "stock;", ""} {
		t.Run(col, func(t *testing.T) {
			_, _, err := buildUpdate(ctxTenant(t, tenantA), Update{
				Table: productsTable,
				Set:   []Assign{Set(col, "x")},
				Where: []Cond{Eq("p.id", "1")},
			})
			assert.Error(t, err)
		})
	}
}

func TestBuildUpdate_ColumnaNormalizada(t *testing.T) {
	sql, _, err := buildUpdate(ctxTenant(t, tenantA), Update{
		Table: productsTable,
		Set:   []Assign{Set(" Name ", "x")},
		Where: []Cond{Eq("p.id", "1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products p SET name = $1 WHERE (p.id = $2) AND (p.tenant_id = $3)", sql)
}

func TestBuildUpdate_FilaDeOtroTenantRechazadaAntesDeLaBD(t *testing.T) {
	p := &entity.Product{ID: "1", Owner: tenancy.Owner{TenantID: tenantB}}
	_, _, err := buildUpdate(ctxTenant(t, tenantA), Update{
		Table: productsTable,
		Set:   []Assign{Set("name", "x")},
		Row:   p,
	})
	assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)
}

func TestBuildUpdate_BypassProtegeConTenantDeLaFila(t *testing.T) {
	inBypass(t, func(ctx context.Context) {
		p := &entity.Product{ID: "1", Owner: tenancy.Owner{TenantID: tenantB}}
		sql, args, err := buildUpdate(ctx, Update{
			Table: productsTable,
			Set:   []Assign{Set("name", "x")},
			Where: []Cond{Eq("p.id", "1")},
			Row:   p,
		})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE products p SET name = $1 WHERE (p.id = $2) AND (p.tenant_id = $3)", sql)
		assert.Equal(t, []any{"x", "1", tenantB.String()}, args)

		_, _, err = buildUpdate(ctx, Update{
			Table: productsTable,
			Set:   []Assign{Set("name", "x")},
			Row:   &entity.Product{ID: "2"},
		})
		assert.ErrorIs(t, err, tenancy.ErrMissingTenantAssignment)
	})
}

func TestBuildUpdate_SetExprRenumera(t *testing.T) {
	sql, args, err := buildUpdate(ctxTenant(t, tenantA), Update{
		Table: productsTable,
		Set:   []Assign{SetExpr("stock", "stock + ?", -2), SetExpr("updated_at", "now()")},
		Where: []Cond{Eq("p.id", "1"), Where("p.stock + ? >= 0", -2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products p SET stock = stock + $1, updated_at = now() WHERE (p.id = $2) AND (p.stock + $3 >= 0) AND (p.tenant_id = $4)", sql)
	assert.Equal(t, []any{-2, "1", -2, tenantA.String()}, args)
}

// ─── Delete ──────────────────────────────────────────────────────────────────

func TestBuildDelete(t *testing.T) {
	sql, args, err := buildDelete(ctxTenant(t, tenantA), Delete{Table: productsTable, Where: []Cond{Eq("p.id", "1")}})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM products p WHERE (p.id = $1) AND (p.tenant_id = $2)", sql)
	assert.Equal(t, []any{"1", tenantA.String()}, args)
}

func TestBuildDelete_BypassSinPredicadosRechazado(t *testing.T) {
	inBypass(t, func(ctx context.Context) {
		_, _, err := buildDelete(ctx, Delete{Table: productsTable})
		assert.Error(t, err)
	})
}

// ─── Insert ──────────────────────────────────────────────────────────────────

func TestBuildInsert_SellaTenantDelContexto(t *testing.T) {
	p := &entity.Product{ID: "1", SKU: "W-1"}
	sql, args, err := buildInsert(ctxTenant(t, tenantB), Insert{
		Table:   productsTable,
		Row:     p,
		Columns: []string{"id", "sku"},
		Values:  []any{p.ID, p.SKU},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO products (id,sku,tenant_id) VALUES ($1,$2,$3)", sql)
	assert.Equal(t, []any{"1", "W-1", tenantB.String()}, args)
	assert.Equal(t, tenantB, p.TenantID)
}

func TestBuildInsert_Errores(t *testing.T) {
	cases := map[string]struct {
		ctx  context.Context
		in   Insert
		want error
	}{
		"tenant ajeno": {
			ctx:  ctxTenant(t, tenantA),
			in:   Insert{Table: productsTable, Row: &entity.Product{Owner: tenancy.Owner{TenantID: tenantB}}, Columns: []string{"id"}, Values: []any{"1"}},
			want: tenancy.ErrCrossTenantAssignment,
		},
		"sin tenant": {
			ctx:  ctxOperator(t),
			in:   Insert{Table: productsTable, Row: &entity.Product{}, Columns: []string{"id"}, Values: []any{"1"}},
			want: tenancy.ErrMissingTenantAssignment,
		},
		"explícito sin bypass": {
			ctx:  ctxOperator(t),
			in:   Insert{Table: productsTable, Row: &entity.Product{Owner: tenancy.Owner{TenantID: tenantA}}, Columns: []string{"id"}, Values: []any{"1"}},
			want: tenancy.ErrTenantNotBound,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := buildInsert(tc.ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuildInsert_ColumnaTenantNoPermitida(t *testing.T) {
	_, _, err := buildInsert(ctxTenant(t, tenantA), Insert{
		Table:   productsTable,
		Row:     &entity.Product{},
		Columns: []string{"id", "tenant_id"},
		Values:  []any{"1", tenantA.String()},
	})
	assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)

	_, _, err = buildInsert(ctxTenant(t, tenantA), Insert{
		Table:   productsTable,
		Row:     &entity.Product{},
		Columns: []string{"id", "Tenant_ID"},
		Values:  []any{"1", tenantB.String()},
	})
	assert.ErrorIs(t, err, tenancy.ErrImmutableTenantAssignment)
}

func TestBuildInsert_BypassConTenantExplicito(t *testing.T) {
	inBypass(t, func(ctx context.Context) {
		p := &entity.Product{ID: "1", Owner: tenancy.Owner{TenantID: tenantB}}
		_, args, err := buildInsert(ctx, Insert{Table: productsTable, Row: p, Columns: []string{"id"}, Values: []any{"1"}})
		require.NoError(t, err)
		assert.Equal(t, []any{"1", tenantB.String()}, args)
	})
}

func TestBuildInsert_TablaCompartida(t *testing.T) {
	sql, _, err := buildInsert(ctxOperator(t), Insert{
		Table:   companiesTable,
		Columns: []string{"id", "name"},
		Values:  []any{"c1", "Tienda"},
		Suffix:  "ON CONFLICT DO NOTHING",
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO companies (id,name) VALUES ($1,$2) ON CONFLICT DO NOTHING", sql)
}
