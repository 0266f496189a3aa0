package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSaleRequest venta de un producto en el punto de venta.
type RegisterSaleRequest struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"payment_method"` // cash, card, transfer
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	SoldBy        string          `json:"sold_by"`
	SoldAt        time.Time       `json:"sold_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
