package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// CreateTask stores a new task owned by the caller.
func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest, claims ports.AuthClaims) (domain.Task, error) {
	if req.Title == "" {
		return domain.Task{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	status := req.Status
	if status == "" {
		status = domain.TaskStatusPending
	}
	if !domain.ValidTaskStatus(status) {
		return domain.Task{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, req.Status)
	}

	return s.tasks.Create(ctx, ports.CreateTaskParams{
		UserID:       claims.UserID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       status,
		DueDate:      req.DueDate,
		CreatedAtUTC: s.nowFn(),
	})
}

// GetTask loads one task, applying the ownership rule. A task owned by someone
// else looks exactly like a task that does not exist.
func (s *Service) GetTask(ctx context.Context, taskID uuid.UUID, claims ports.AuthClaims) (domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.authorizeRead(task.UserID, claims); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// ListTasks pages through tasks: admins see every task, everyone else only
// their own.
func (s *Service) ListTasks(ctx context.Context, page, limit int, claims ports.AuthClaims) (TaskListResponse, error) {
	page, limit = normalizePage(page, limit)

	var (
		result ports.TaskPage
		err    error
	)
	if claims.Role == domain.RoleAdmin {
		result, err = s.tasks.ListAll(ctx, page, limit)
	} else {
		result, err = s.tasks.ListByUser(ctx, claims.UserID, page, limit)
	}
	if err != nil {
		return TaskListResponse{}, err
	}
	views := make([]TaskView, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		views = append(views, ToTaskView(t))
	}
	return TaskListResponse{
		Tasks: views,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	}, nil
}

// UpdateTask applies a partial mutation after the ownership check.
func (s *Service) UpdateTask(ctx context.Context, taskID uuid.UUID, req UpdateTaskRequest, claims ports.AuthClaims) (domain.Task, error) {
	if _, err := s.GetTask(ctx, taskID, claims); err != nil {
		return domain.Task{}, err
	}
	if req.Status != nil && !domain.ValidTaskStatus(*req.Status) {
		return domain.Task{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *req.Status)
	}
	return s.tasks.Update(ctx, taskID, ports.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}, s.nowFn())
}

// DeleteTask removes a task after the ownership check.
func (s *Service) DeleteTask(ctx context.Context, taskID uuid.UUID, claims ports.AuthClaims) error {
	if _, err := s.GetTask(ctx, taskID, claims); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}
