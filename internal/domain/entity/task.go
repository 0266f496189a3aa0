package entity

import (
	"time"

	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

// Task tarea operativa del tenant (reposición, limpieza, turnos...).
type Task struct {
	ID string
	tenancy.Owner
	Title       string
	AssigneeID  string
	DueAt       *time.Time
	Done        bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
