package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/application"
)

func (h *Handler) scheduleTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task_id")
		return
	}
	task, err := h.service.ScheduleTask(r.Context(), taskID, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "schedule_task", err)
		return
	}
	writeSuccess(w, http.StatusOK, application.ToTaskView(task))
}

func (h *Handler) scheduleAllTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.ScheduleAllTasks(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "schedule_all_tasks", err)
		return
	}
	views := make([]application.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, application.ToTaskView(t))
	}
	writeSuccess(w, http.StatusOK, map[string]any{"tasks": views})
}

func (h *Handler) importCalendarEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	tasks, err := h.service.ImportCalendarEvents(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "import_calendar_events", err)
		return
	}
	views := make([]application.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, application.ToTaskView(t))
	}
	writeSuccess(w, http.StatusOK, map[string]any{"tasks": views})
}
