package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

const (
	scheduledEventDuration = time.Hour
	importWindow           = 7 * 24 * time.Hour
	importMaxEvents        = 100
	scheduleAllBatchLimit  = 100
)

// ScheduleTask creates a calendar event for one task and records the event id
// on the task. The task needs a due date to be schedulable.
func (s *Service) ScheduleTask(ctx context.Context, taskID uuid.UUID, claims ports.AuthClaims) (domain.Task, error) {
	task, err := s.GetTask(ctx, taskID, claims)
	if err != nil {
		return domain.Task{}, err
	}
	if task.DueDate == nil {
		return domain.Task{}, fmt.Errorf("%w: task has no due date", domain.ErrInvalidInput)
	}

	src, err := s.DelegatedTokenSource(ctx, claims.UserID)
	if err != nil {
		return domain.Task{}, err
	}

	eventID, err := s.calendar.InsertEvent(ctx, src, ports.CalendarEvent{
		Summary:     task.Title,
		Description: task.Description,
		Start:       task.DueDate.UTC(),
		End:         task.DueDate.UTC().Add(scheduledEventDuration),
	})
	if err != nil {
		return domain.Task{}, wrapProviderError(err)
	}

	return s.tasks.Update(ctx, task.TaskID, ports.TaskUpdate{
		CalendarEventID: &eventID,
	}, s.nowFn())
}

// ScheduleAllTasks walks the caller's tasks and schedules every one that has a
// due date and no calendar event yet. A failure on one task is logged and the
// original task kept in the result; the rest of the batch continues.
func (s *Service) ScheduleAllTasks(ctx context.Context, claims ports.AuthClaims) ([]domain.Task, error) {
	src, err := s.DelegatedTokenSource(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	listing, err := s.tasks.ListByUser(ctx, claims.UserID, 1, scheduleAllBatchLimit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(listing.Tasks))
	for _, task := range listing.Tasks {
		if task.CalendarEventID != "" || task.DueDate == nil {
			out = append(out, task)
			continue
		}

		eventID, insertErr := s.calendar.InsertEvent(ctx, src, ports.CalendarEvent{
			Summary:     task.Title,
			Description: task.Description,
			Start:       task.DueDate.UTC(),
			End:         task.DueDate.UTC().Add(scheduledEventDuration),
		})
		if insertErr != nil {
			slog.Default().WarnContext(ctx, "failed to schedule task in calendar",
				"module", "application",
				"operation", "schedule_all_tasks",
				"outcome", "failure",
				"task_id", task.TaskID.String(),
				"error", insertErr,
			)
			out = append(out, task)
			continue
		}

		updated, updateErr := s.tasks.Update(ctx, task.TaskID, ports.TaskUpdate{
			CalendarEventID: &eventID,
		}, s.nowFn())
		if updateErr != nil {
			out = append(out, task)
			continue
		}
		out = append(out, updated)
	}
	return out, nil
}

// ImportCalendarEvents pulls the caller's recent calendar events and stores
// each timed one as a task. Events without a start time are skipped.
func (s *Service) ImportCalendarEvents(ctx context.Context, claims ports.AuthClaims) ([]domain.Task, error) {
	src, err := s.DelegatedTokenSource(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	events, err := s.calendar.ListRecentEvents(ctx, src, now.Add(-importWindow), now, importMaxEvents)
	if err != nil {
		return nil, wrapProviderError(err)
	}

	imported := make([]domain.Task, 0, len(events))
	for _, event := range events {
		if event.Start.IsZero() {
			continue
		}
		title := event.Summary
		if title == "" {
			title = "Untitled Event"
		}
		due := event.Start
		task, createErr := s.tasks.Create(ctx, ports.CreateTaskParams{
			UserID:          claims.UserID,
			Title:           title,
			Description:     event.Description,
			Status:          domain.TaskStatusPending,
			DueDate:         &due,
			CalendarEventID: event.EventID,
			CreatedAtUTC:    now,
		})
		if createErr != nil {
			return nil, createErr
		}
		imported = append(imported, task)
	}
	return imported, nil
}
