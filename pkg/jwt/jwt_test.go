package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	in := Identity{UserID: "u1", TenantID: "00000000-0000-0000-0000-00000000000a"}
	token, err := Generate("secret", in, "backoffice", 5)
	require.NoError(t, err)

	out, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_PrivilegiadoSinTenant(t *testing.T) {
	token, err := Generate("secret", Identity{UserID: "ops", Privileged: true}, "backoffice", 5)
	require.NoError(t, err)

	out, err := Parse("secret", token)
	require.NoError(t, err)
	assert.True(t, out.Privileged)
	assert.Empty(t, out.TenantID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secret", Identity{UserID: "u1"}, "backoffice", 5)
	require.NoError(t, err)
	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate("secret", Identity{UserID: "u1"}, "backoffice", -1)
	require.NoError(t, err)
	_, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := Generate("", Identity{UserID: "u1"}, "backoffice", 5)
	assert.Error(t, err)
}
