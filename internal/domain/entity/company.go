package entity

import "time"

// Company cuenta de negocio (tenant). La tabla companies es compartida: no lleva tenant_id,
// su propio ID es el identificador de tenant del resto de tablas.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Estados de una empresa.
const (
	CompanyActive    = "active"
	CompanySuspended = "suspended"
	CompanyInactive  = "inactive"
)
