package tenancy

import "fmt"

// Principal identidad autenticada que produce el subsistema de autenticación.
// TenantID nil significa que la identidad no pertenece a ningún tenant.
type Principal struct {
	UserID     string
	TenantID   *ID
	Privileged bool // superadmin / procesos internos con visibilidad entre tenants
	system     string
}

// UserPrincipal principal de un usuario autenticado.
func UserPrincipal(userID string, tenantID *ID, privileged bool) Principal {
	return Principal{UserID: userID, TenantID: tenantID, Privileged: privileged}
}

// SystemPrincipal principal privilegiado para trabajos en segundo plano.
// name queda registrado en la auditoría de cada bypass (ej. "jobs.sales-summary").
func SystemPrincipal(name string) Principal {
	return Principal{Privileged: true, system: name}
}

// IsSystem indica si el principal es un proceso interno.
func (p Principal) IsSystem() bool { return p.system != "" }

// Subject identidad para logs de auditoría.
func (p Principal) Subject() string {
	switch {
	case p.system != "":
		return "system:" + p.system
	case p.UserID != "":
		return "user:" + p.UserID
	default:
		return "unknown"
	}
}

func (p Principal) String() string {
	t := "-"
	if p.TenantID != nil {
		t = p.TenantID.String()
	}
	return fmt.Sprintf("%s(tenant=%s, privileged=%t)", p.Subject(), t, p.Privileged)
}

func (p Principal) equal(o Principal) bool {
	if p.UserID != o.UserID || p.Privileged != o.Privileged || p.system != o.system {
		return false
	}
	if p.TenantID == nil || o.TenantID == nil {
		return p.TenantID == nil && o.TenantID == nil
	}
	return *p.TenantID == *o.TenantID
}
