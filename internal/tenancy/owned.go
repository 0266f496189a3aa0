package tenancy

import "context"

// Owned lo implementan las entidades que pertenecen a un tenant.
// Las entidades lo obtienen embebiendo Owner.
type Owned interface {
	OwnerID() ID
	AssignOwner(id ID)
}

// Owner campo de tenant embebible en entidades.
type Owner struct {
	TenantID ID
}

// OwnerID tenant dueño de la fila.
func (o Owner) OwnerID() ID { return o.TenantID }

// AssignOwner fija el tenant. Solo lo usa Stamp al crear.
func (o *Owner) AssignOwner(id ID) { o.TenantID = id }

// Stamp asigna el tenant del contexto a una entidad nueva.
//
// Sin tenant explícito toma el del contexto (ErrMissingTenantAssignment si no hay).
// Con tenant explícito lo deja intacto: en modo Bypassed se acepta cualquiera; en
// modo Enforced debe coincidir con el del contexto (ErrCrossTenantAssignment), y sin
// tenant en el contexto hace falta un bypass explícito (ErrTenantNotBound).
func Stamp(ctx context.Context, row Owned) error {
	tc := FromContext(ctx)
	claimed := row.OwnerID()
	if claimed.IsZero() {
		id, ok := tc.Lookup()
		if !ok {
			return ErrMissingTenantAssignment
		}
		row.AssignOwner(id)
		return nil
	}
	if ModeFrom(ctx) == Bypassed {
		return nil
	}
	id, ok := tc.Lookup()
	if !ok {
		return ErrTenantNotBound
	}
	if id != claimed {
		return ErrCrossTenantAssignment
	}
	return nil
}

// CheckReassignment valida que una escritura no cambie el tenant guardado.
// proposed vacío significa "sin cambio".
func CheckReassignment(stored, proposed ID) error {
	if proposed.IsZero() || proposed == stored {
		return nil
	}
	return ErrImmutableTenantAssignment
}
