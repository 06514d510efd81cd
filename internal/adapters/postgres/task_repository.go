package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// TaskRepository is the Postgres implementation of ports.TaskRepository.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, params ports.CreateTaskParams) (domain.Task, error) {
	m := taskModel{
		TaskID:          uuid.New(),
		UserID:          params.UserID,
		Title:           params.Title,
		Description:     params.Description,
		Status:          params.Status,
		DueDate:         params.DueDate,
		CalendarEventID: params.CalendarEventID,
		CreatedAt:       params.CreatedAtUTC,
		UpdatedAt:       params.CreatedAtUTC,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return toDomainTask(m), nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	var m taskModel
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("query task by id: %w", err)
	}
	return toDomainTask(m), nil
}

func (r *TaskRepository) ListAll(ctx context.Context, page, limit int) (ports.TaskPage, error) {
	scope := func() *gorm.DB { return r.db.WithContext(ctx).Model(&taskModel{}) }
	return r.listPage(scope, page, limit)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (ports.TaskPage, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&taskModel{}).Where("user_id = ?", userID)
	}
	return r.listPage(scope, page, limit)
}

// listPage takes a scope builder rather than a built query; Count and Find
// each need a fresh statement so clauses from one do not leak into the other.
func (r *TaskRepository) listPage(scope func() *gorm.DB, page, limit int) (ports.TaskPage, error) {
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return ports.TaskPage{}, fmt.Errorf("count tasks: %w", err)
	}

	var models []taskModel
	offset := (page - 1) * limit
	err := scope().Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error
	if err != nil {
		return ports.TaskPage{}, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, toDomainTask(m))
	}
	return ports.TaskPage{Tasks: tasks, Total: total, Page: page, Limit: limit}, nil
}

func (r *TaskRepository) Update(ctx context.Context, taskID uuid.UUID, update ports.TaskUpdate, updatedAt time.Time) (domain.Task, error) {
	values := map[string]any{"updated_at": updatedAt}
	if update.Title != nil {
		values["title"] = *update.Title
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Status != nil {
		values["status"] = *update.Status
	}
	if update.DueDate != nil {
		values["due_date"] = *update.DueDate
	}
	if update.CalendarEventID != nil {
		values["calendar_event_id"] = *update.CalendarEventID
	}

	res := r.db.WithContext(ctx).Model(&taskModel{}).Where("task_id = ?", taskID).Updates(values)
	if res.Error != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, taskID)
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&taskModel{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
