package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/handler/dto"
	"github.com/tasklane/tasklane/internal/model"
	"github.com/tasklane/tasklane/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /todos.
// Returns every item where the caller is a participant, newest first.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := auth.SubjectFromContext(r.Context())

	todos, err := h.svc.ListTodos(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID := auth.SubjectFromContext(r.Context())

	var req dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeIDs: req.AssigneeIDs,
		OwnerID:     callerID,
	}

	todo, err := h.svc.CreateTodo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"owner_id", todo.OwnerID,
		"assignees", len(todo.AssigneeIDs),
	)

	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(todo))
}

// Update handles PUT /todos/{id}.
// Each field is applied independently only when present in the body.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID := auth.SubjectFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Todo ID is required")
		return
	}

	var req dto.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateTodoInput{
		ID:          id,
		CallerID:    callerID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeIDs: req.AssigneeIDs,
	}
	if req.Status != nil {
		status := model.TodoStatus(*req.Status)
		input.Status = &status
	}

	todo, err := h.svc.UpdateTodo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_updated",
		"todo_id", todo.ID,
		"caller_id", callerID,
	)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
// Only the owner may delete.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID := auth.SubjectFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Todo ID is required")
		return
	}

	if err := h.svc.DeleteTodo(r.Context(), id, callerID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_deleted", "todo_id", id, "caller_id", callerID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		h.writeError(w, http.StatusNotFound, "TODO_NOT_FOUND", "Not found")
	case errors.Is(err, service.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	case errors.Is(err, service.ErrTitleRequired):
		h.writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title required")
	case errors.Is(err, service.ErrInvalidStatus):
		h.writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be open, in_progress, or done")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *TodoHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
