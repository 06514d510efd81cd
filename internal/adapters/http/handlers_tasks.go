package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/application"
)

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var req application.CreateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_task", err)
		return
	}
	task, err := h.service.CreateTask(r.Context(), req, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "create_task", err)
		return
	}
	writeSuccess(w, http.StatusCreated, application.ToTaskView(task))
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 10)
	res, err := h.service.ListTasks(r.Context(), page, limit, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "list_tasks", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task_id")
		return
	}
	task, err := h.service.GetTask(r.Context(), taskID, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "get_task", err)
		return
	}
	writeSuccess(w, http.StatusOK, application.ToTaskView(task))
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task_id")
		return
	}
	var req application.UpdateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_task", err)
		return
	}
	task, err := h.service.UpdateTask(r.Context(), taskID, req, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "update_task", err)
		return
	}
	writeSuccess(w, http.StatusOK, application.ToTaskView(task))
}

func (h *Handler) analyzeTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task_id")
		return
	}
	insights, err := h.service.AnalyzeTask(r.Context(), taskID, claims)
	if err != nil {
		writeMappedError(r.Context(), w, "analyze_task", err)
		return
	}
	writeSuccess(w, http.StatusOK, insights)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid task_id")
		return
	}
	if err := h.service.DeleteTask(r.Context(), taskID, claims); err != nil {
		writeMappedError(r.Context(), w, "delete_task", err)
		return
	}
	writeMessage(w, http.StatusOK, "Task deleted successfully")
}
