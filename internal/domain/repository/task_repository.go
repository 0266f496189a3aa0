package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// TaskRepository puerto de persistencia para tareas.
type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	List(ctx context.Context, onlyPending bool, limit, offset int) ([]*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
}
