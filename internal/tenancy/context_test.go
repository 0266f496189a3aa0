package tenancy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var (
	tenantA = tenancy.MustParseID("00000000-0000-0000-0000-00000000000a")
	tenantB = tenancy.MustParseID("00000000-0000-0000-0000-00000000000b")
)

func ptr(id tenancy.ID) *tenancy.ID { return &id }

func TestParseID_NormalizaYRechazaInvalidos(t *testing.T) {
	id, err := tenancy.ParseID("  00000000-0000-0000-0000-00000000000A ")
	require.NoError(t, err)
	assert.Equal(t, tenantA, id)

	_, err = tenancy.ParseID("no-es-uuid")
	assert.ErrorIs(t, err, tenancy.ErrInvalidTenantID)

	_, err = tenancy.ParseID("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, tenancy.ErrInvalidTenantID, "el uuid nulo no es un tenant")
}

func TestContext_TenantIDSinTenantEntraEnPanico(t *testing.T) {
	tc := tenancy.Unbound()
	assert.False(t, tc.HasTenant())
	assert.Panics(t, func() { _ = tc.TenantID() }, "TenantID sin tenant debe fallar ruidosamente")

	_, ok := tc.Lookup()
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		principal tenancy.Principal
		want      tenancy.Context
		wantErr   error
	}{
		{"usuario con tenant", tenancy.UserPrincipal("u1", ptr(tenantA), false), tenancy.BoundTo(tenantA), nil},
		{"superadmin actuando sobre un tenant", tenancy.UserPrincipal("u2", ptr(tenantB), true), tenancy.BoundTo(tenantB), nil},
		{"superadmin sin tenant", tenancy.UserPrincipal("root", nil, true), tenancy.Unbound(), nil},
		{"usuario sin tenant", tenancy.UserPrincipal("u3", nil, false), tenancy.Context{}, tenancy.ErrUnboundPrincipal},
		{"sistema", tenancy.SystemPrincipal("jobs.test"), tenancy.Unbound(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tenancy.Resolve(tt.principal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBind_UnPrincipalPorContexto(t *testing.T) {
	p := tenancy.UserPrincipal("u1", ptr(tenantA), false)
	ctx, err := tenancy.Bind(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, tenantA, tenancy.FromContext(ctx).TenantID())
	got, ok := tenancy.PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "user:u1", got.Subject())

	// mismo principal: idempotente
	_, err = tenancy.Bind(ctx, p)
	assert.NoError(t, err)

	_, err = tenancy.Bind(ctx, tenancy.UserPrincipal("u1", ptr(tenantB), false))
	assert.ErrorIs(t, err, tenancy.ErrPrincipalConflict)
	assert.Equal(t, tenantA, tenancy.FromContext(ctx).TenantID(), "el tenant original no cambia")
}

func TestFromContext_SinBindEsUnbound(t *testing.T) {
	assert.False(t, tenancy.FromContext(context.Background()).HasTenant())
}

func TestBind_PeticionesConcurrentesNoSeMezclan(t *testing.T) {
	base := context.Background()
	ctxA, err := tenancy.Bind(base, tenancy.UserPrincipal("a", ptr(tenantA), false))
	require.NoError(t, err)
	ctxB, err := tenancy.Bind(base, tenancy.UserPrincipal("b", ptr(tenantB), false))
	require.NoError(t, err)

	done := make(chan tenancy.ID, 2)
	go func() { done <- tenancy.FromContext(ctxA).TenantID() }()
	go func() { done <- tenancy.FromContext(ctxB).TenantID() }()
	got := []tenancy.ID{<-done, <-done}

	assert.ElementsMatch(t, []tenancy.ID{tenantA, tenantB}, got)
	assert.False(t, tenancy.FromContext(base).HasTenant(), "el contexto base no queda vinculado")
}
