package tenancy

import "errors"

// Errores de aislamiento. Nunca se silencian: el llamador los propaga hasta la capa HTTP.
var (
	// ErrTenantNotBound operación con filtro activo sin tenant en el contexto.
	ErrTenantNotBound = errors.New("tenancy: no hay tenant vinculado a la operación")
	// ErrMissingTenantAssignment creación de una entidad sin tenant derivable.
	ErrMissingTenantAssignment = errors.New("tenancy: la entidad no tiene tenant asignado")
	// ErrImmutableTenantAssignment intento de cambiar el tenant de una fila existente.
	ErrImmutableTenantAssignment = errors.New("tenancy: el tenant de una fila no se puede modificar")
	// ErrCrossTenantAssignment un usuario de tenant intentó crear filas para otro tenant.
	ErrCrossTenantAssignment = errors.New("tenancy: no se puede asignar la entidad a otro tenant")
	// ErrBypassDenied el principal no puede suspender el filtro por tenant.
	ErrBypassDenied = errors.New("tenancy: bypass del filtro por tenant no permitido")
	// ErrUnboundPrincipal principal ordinario sin tenant: no se puede construir su contexto.
	ErrUnboundPrincipal = errors.New("tenancy: principal sin tenant ni privilegios")
	// ErrPrincipalConflict el contexto ya tiene otro principal vinculado.
	ErrPrincipalConflict = errors.New("tenancy: el contexto ya tiene un principal distinto")
	// ErrInvalidTenantID identificador de tenant mal formado.
	ErrInvalidTenantID = errors.New("tenancy: identificador de tenant inválido")
)
