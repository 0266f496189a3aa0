package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// SaleUseCase punto de venta: registro y consulta de ventas.
type SaleUseCase struct {
	tx    TxRunner
	sales repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx TxRunner, sales repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{tx: tx, sales: sales}
}

// Register registra una venta y descuenta stock en una sola transacción.
// El producto se busca con el filtro del tenant: uno ajeno se trata como inexistente.
func (uc *SaleUseCase) Register(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
	}
	switch in.PaymentMethod {
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
	default:
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(repos TxRepos) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Stock < in.Quantity {
			return domain.ErrInsufficientStock
		}
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Quantity:      in.Quantity,
			UnitPrice:     product.Price,
			Total:         product.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
			PaymentMethod: in.PaymentMethod,
			SoldBy:        userID,
			SoldAt:        time.Now().UTC(),
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := repos.Products.AdjustStock(ctx, product.ID, -in.Quantity); err != nil {
			return fmt.Errorf("descontar stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("sale_id", sale.ID).Str("product_id", sale.ProductID).
		Str("total", sale.Total.String()).
		Msg("venta registrada")
	return toSaleResponse(sale), nil
}

// List ventas del tenant en [from, to).
func (uc *SaleUseCase) List(ctx context.Context, from, to time.Time, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.sales.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:            s.ID,
		TenantID:      s.TenantID.String(),
		ProductID:     s.ProductID,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		SoldBy:        s.SoldBy,
		SoldAt:        s.SoldAt,
	}
}
