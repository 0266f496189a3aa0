package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/tenancy"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

var taskColumns = []string{
	tasksTable.Col("id"), tasksTable.Col("tenant_id"), tasksTable.Col("title"),
	tasksTable.Col("assignee_id"), tasksTable.Col("due_at"), tasksTable.Col("done"),
	tasksTable.Col("completed_at"), tasksTable.Col("created_at"), tasksTable.Col("updated_at"),
}

// TaskRepo tareas sobre PostgreSQL.
type TaskRepo struct {
	db *ScopedDB
}

// NewTaskRepository construye el adaptador. Acepta pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{db: NewScopedDB(q)}
}

// Create persiste una tarea.
func (r *TaskRepo) Create(ctx context.Context, task *entity.Task) error {
	_, err := r.db.Insert(ctx, Insert{
		Table:   tasksTable,
		Row:     task,
		Columns: []string{"id", "title", "assignee_id", "due_at", "done", "completed_at", "created_at", "updated_at"},
		Values: []any{
			task.ID, task.Title, task.AssigneeID, task.DueAt, task.Done,
			task.CompletedAt, task.CreatedAt, task.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea. nil si no existe en el tenant.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, Select{
		Columns: taskColumns,
		From:    tasksTable,
		Where:   []Cond{Eq(tasksTable.Col("id"), id)},
	}))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List tareas; onlyPending filtra las no completadas.
func (r *TaskRepo) List(ctx context.Context, onlyPending bool, limit, offset int) ([]*entity.Task, error) {
	var where []Cond
	if onlyPending {
		where = append(where, Eq(tasksTable.Col("done"), false))
	}
	rows, err := r.db.Query(ctx, Select{
		Columns: taskColumns,
		From:    tasksTable,
		Where:   where,
		OrderBy: tasksTable.Col("due_at") + " ASC NULLS LAST, " + tasksTable.Col("created_at") + " DESC",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update guarda el estado de la tarea.
func (r *TaskRepo) Update(ctx context.Context, task *entity.Task) error {
	err := r.db.UpdateRow(ctx, Update{
		Table: tasksTable,
		Row:   task,
		Set: []Assign{
			Set("title", task.Title),
			Set("assignee_id", task.AssigneeID),
			Set("due_at", task.DueAt),
			Set("done", task.Done),
			Set("completed_at", task.CompletedAt),
			Set("updated_at", task.UpdatedAt),
		},
	}, "id", task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var tenantID string
	if err := row.Scan(&t.ID, &tenantID, &t.Title, &t.AssigneeID, &t.DueAt, &t.Done,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.TenantID = tenancy.ID(tenantID)
	return &t, nil
}
