package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CloseCashRequest lo contado por el cajero al cerrar caja.
type CloseCashRequest struct {
	CountedTotal decimal.Decimal `json:"counted_total"`
	Notes        string          `json:"notes"`
}

// CashClosingResponse salida de un cierre de caja.
type CashClosingResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	CountedTotal  decimal.Decimal `json:"counted_total"`
	Difference    decimal.Decimal `json:"difference"`
	SalesCount    int             `json:"sales_count"`
	ClosedBy      string          `json:"closed_by"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CashClosingListResponse lista paginada de cierres.
type CashClosingListResponse struct {
	Items []CashClosingResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
