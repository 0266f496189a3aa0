package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// TaskUseCase tareas operativas del tenant.
type TaskUseCase struct {
	repo repository.TaskRepository
}

// NewTaskUseCase construye el caso de uso.
func NewTaskUseCase(repo repository.TaskRepository) *TaskUseCase {
	return &TaskUseCase{repo: repo}
}

// Create crea una tarea pendiente. Sin assignee se asigna a quien la crea.
func (uc *TaskUseCase) Create(ctx context.Context, userID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrInvalidInput
	}
	assignee := in.AssigneeID
	if assignee == "" {
		assignee = userID
	}
	now := time.Now()
	task := &entity.Task{
		ID:         uuid.New().String(),
		Title:      title,
		AssigneeID: assignee,
		DueAt:      in.DueAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

// List tareas del tenant; onlyPending filtra las no completadas.
func (uc *TaskUseCase) List(ctx context.Context, onlyPending bool, limit, offset int) (*dto.TaskListResponse, error) {
	list, err := uc.repo.List(ctx, onlyPending, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTaskResponse(t))
	}
	return &dto.TaskListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Complete marca la tarea como hecha. Completar dos veces no cambia CompletedAt.
func (uc *TaskUseCase) Complete(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrNotFound
	}
	if task.Done {
		return toTaskResponse(task), nil
	}
	now := time.Now()
	task.Done = true
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := uc.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:          t.ID,
		TenantID:    t.TenantID.String(),
		Title:       t.Title,
		AssigneeID:  t.AssigneeID,
		DueAt:       t.DueAt,
		Done:        t.Done,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
