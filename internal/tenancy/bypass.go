package tenancy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Mode modo de alcance de una llamada de acceso a datos.
type Mode int

const (
	// Enforced filtra por el tenant del contexto (por defecto).
	Enforced Mode = iota
	// Bypassed sin filtro por tenant; solo dentro de WithoutScope.
	Bypassed
)

func (m Mode) String() string {
	if m == Bypassed {
		return "bypassed"
	}
	return "enforced"
}

type bypassKey struct{}

// BypassInfo metadatos del bypass activo, para auditoría.
type BypassInfo struct {
	Reason    string
	Principal Principal
	StartedAt time.Time
}

// ModeFrom devuelve el modo de ctx. Sin WithoutScope siempre es Enforced.
func ModeFrom(ctx context.Context) Mode {
	if _, ok := ctx.Value(bypassKey{}).(BypassInfo); ok {
		return Bypassed
	}
	return Enforced
}

// BypassFrom devuelve la información del bypass activo en ctx.
func BypassFrom(ctx context.Context) (BypassInfo, bool) {
	info, ok := ctx.Value(bypassKey{}).(BypassInfo)
	return info, ok
}

// WithoutScope ejecuta fn sin filtro por tenant. El bypass vive solo en el ctx que
// recibe fn; el ctx del llamador sigue en modo Enforced al volver.
//
// Requiere un principal privilegiado vinculado a ctx y un motivo estable
// (ej. "report.sales-by-tenant"); cada bypass queda en el log con el sujeto.
// Si se quieren resultados de un tenant concreto, fn debe filtrar explícitamente.
func WithoutScope[T any](ctx context.Context, reason string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	bctx, err := enterBypass(ctx, reason)
	if err != nil {
		return zero, err
	}
	return fn(bctx)
}

// RunWithoutScope variante de WithoutScope sin valor de retorno.
func RunWithoutScope(ctx context.Context, reason string, fn func(ctx context.Context) error) error {
	_, err := WithoutScope(ctx, reason, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func enterBypass(ctx context.Context, reason string) (context.Context, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: motivo requerido", ErrBypassDenied)
	}
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: sin principal en el contexto", ErrBypassDenied)
	}
	if !p.Privileged {
		zerolog.Ctx(ctx).Warn().
			Str("principal", p.Subject()).
			Str("reason", reason).
			Msg("bypass de tenant rechazado")
		return nil, fmt.Errorf("%w: %s no es privilegiado", ErrBypassDenied, p.Subject())
	}
	info := BypassInfo{Reason: reason, Principal: p, StartedAt: time.Now()}
	zerolog.Ctx(ctx).Warn().
		Str("principal", p.Subject()).
		Str("reason", reason).
		Str("tenant", FromContext(ctx).String()).
		Msg("bypass de tenant")
	return context.WithValue(ctx, bypassKey{}, info), nil
}
