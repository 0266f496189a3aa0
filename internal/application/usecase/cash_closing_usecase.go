package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// CashClosingUseCase cierre de caja del tenant.
type CashClosingUseCase struct {
	tx       TxRunner
	closings repository.CashClosingRepository
	now      func() time.Time
}

// NewCashClosingUseCase construye el caso de uso.
func NewCashClosingUseCase(tx TxRunner, closings repository.CashClosingRepository) *CashClosingUseCase {
	return &CashClosingUseCase{tx: tx, closings: closings, now: func() time.Time { return time.Now().UTC() }}
}

// Close cierra la caja: esperado = ventas en efectivo desde el último cierre,
// diferencia = contado - esperado. Lectura y alta van en la misma transacción.
func (uc *CashClosingUseCase) Close(ctx context.Context, userID string, in dto.CloseCashRequest) (*dto.CashClosingResponse, error) {
	if in.CountedTotal.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	end := uc.now()
	var closing *entity.CashClosing
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		last, err := repos.CashClosings.Last(ctx)
		if err != nil {
			return err
		}
		var start time.Time
		if last != nil {
			start = last.PeriodEnd
		}
		if !end.After(start) {
			return domain.ErrConflict
		}
		expected, count, err := repos.Sales.SumSince(ctx, entity.PaymentCash, start, end)
		if err != nil {
			return err
		}
		closing = &entity.CashClosing{
			ID:            uuid.New().String(),
			PeriodStart:   start,
			PeriodEnd:     end,
			ExpectedTotal: expected,
			CountedTotal:  in.CountedTotal,
			Difference:    in.CountedTotal.Sub(expected),
			SalesCount:    count,
			ClosedBy:      userID,
			Notes:         in.Notes,
			CreatedAt:     end,
		}
		return repos.CashClosings.Create(ctx, closing)
	})
	if err != nil {
		return nil, err
	}
	if !closing.Difference.IsZero() {
		zerolog.Ctx(ctx).Warn().
			Str("closing_id", closing.ID).Str("difference", closing.Difference.String()).
			Msg("cierre de caja con diferencia")
	}
	return toCashClosingResponse(closing), nil
}

// List cierres del tenant, más recientes primero.
func (uc *CashClosingUseCase) List(ctx context.Context, limit, offset int) (*dto.CashClosingListResponse, error) {
	list, err := uc.closings.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CashClosingResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCashClosingResponse(c))
	}
	return &dto.CashClosingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toCashClosingResponse(c *entity.CashClosing) *dto.CashClosingResponse {
	return &dto.CashClosingResponse{
		ID:            c.ID,
		TenantID:      c.TenantID.String(),
		PeriodStart:   c.PeriodStart,
		PeriodEnd:     c.PeriodEnd,
		ExpectedTotal: c.ExpectedTotal,
		CountedTotal:  c.CountedTotal,
		Difference:    c.Difference,
		SalesCount:    c.SalesCount,
		ClosedBy:      c.ClosedBy,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}
