package tenancy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID identifica a un tenant. Es un UUID en forma canónica (minúsculas, con guiones).
type ID string

// ParseID valida y normaliza un identificador de tenant.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTenantID, s)
	}
	if u == uuid.Nil {
		return "", fmt.Errorf("%w: uuid nulo", ErrInvalidTenantID)
	}
	return ID(u.String()), nil
}

// MustParseID como ParseID pero entra en pánico. Solo para constantes y tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string { return string(id) }

// IsZero indica que no hay tenant.
func (id ID) IsZero() bool { return id == "" }
