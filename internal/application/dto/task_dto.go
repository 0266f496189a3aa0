package dto

import "time"

// CreateTaskRequest entrada para crear una tarea.
type CreateTaskRequest struct {
	Title      string     `json:"title"`
	AssigneeID string     `json:"assignee_id"`
	DueAt      *time.Time `json:"due_at"`
}

// TaskResponse salida de una tarea.
type TaskResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Title       string     `json:"title"`
	AssigneeID  string     `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskListResponse lista paginada de tareas.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
