package tenancy

import (
	"context"
	"fmt"
)

// Context tenant de una petición: "sin tenant" o un tenant concreto.
// Es un valor inmutable; se construye una vez por petición con Resolve.
type Context struct {
	id ID
}

// Unbound contexto sin tenant (superadmin o proceso interno).
func Unbound() Context { return Context{} }

// BoundTo contexto vinculado a un tenant. id vacío es un error de programación.
func BoundTo(id ID) Context {
	if id.IsZero() {
		panic("tenancy: BoundTo con tenant vacío")
	}
	return Context{id: id}
}

// HasTenant indica si hay un tenant concreto vinculado.
func (c Context) HasTenant() bool { return !c.id.IsZero() }

// TenantID devuelve el tenant vinculado. Llamarlo sin tenant es un error de
// programación y entra en pánico con ErrTenantNotBound; usar HasTenant o Lookup antes.
func (c Context) TenantID() ID {
	if c.id.IsZero() {
		panic(fmt.Errorf("TenantID() sin tenant: %w", ErrTenantNotBound))
	}
	return c.id
}

// Lookup devuelve el tenant y si existe.
func (c Context) Lookup() (ID, bool) { return c.id, !c.id.IsZero() }

func (c Context) String() string {
	if c.id.IsZero() {
		return "tenant(none)"
	}
	return "tenant(" + c.id.String() + ")"
}

// Resolve deriva el Context desde el principal autenticado.
//   - con tenant: contexto vinculado (aunque el principal sea privilegiado).
//   - sin tenant y privilegiado: contexto sin tenant.
//   - sin tenant y no privilegiado: ErrUnboundPrincipal.
func Resolve(p Principal) (Context, error) {
	if p.TenantID != nil && !p.TenantID.IsZero() {
		return BoundTo(*p.TenantID), nil
	}
	if p.Privileged {
		return Unbound(), nil
	}
	return Context{}, ErrUnboundPrincipal
}

type bindingKey struct{}

type binding struct {
	principal Principal
	tenant    Context
}

// Bind resuelve el Context del principal y lo guarda en ctx junto al principal.
// Un ctx admite un único principal: volver a vincular uno distinto devuelve ErrPrincipalConflict.
func Bind(ctx context.Context, p Principal) (context.Context, error) {
	if existing, ok := ctx.Value(bindingKey{}).(binding); ok {
		if !existing.principal.equal(p) {
			return ctx, fmt.Errorf("%w: actual=%s nuevo=%s", ErrPrincipalConflict, existing.principal, p)
		}
		return ctx, nil
	}
	tc, err := Resolve(p)
	if err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, bindingKey{}, binding{principal: p, tenant: tc}), nil
}

// FromContext devuelve el Context de la petición; sin Bind previo es Unbound.
func FromContext(ctx context.Context) Context {
	b, _ := ctx.Value(bindingKey{}).(binding)
	return b.tenant
}

// PrincipalFrom devuelve el principal vinculado a ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	b, ok := ctx.Value(bindingKey{}).(binding)
	return b.principal, ok
}
