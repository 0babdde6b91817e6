package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskflow-app/taskflow-api/internal/api/middleware"
	"github.com/taskflow-app/taskflow-api/internal/api/shared"
	"github.com/taskflow-app/taskflow-api/internal/domain"
	"github.com/taskflow-app/taskflow-api/internal/service"
	"github.com/taskflow-app/taskflow-api/internal/store"
)

// TaskHandler handles task CRUD and query requests. Every route is
// behind the auth middleware, so the owner identity always comes from
// the request context.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	params := listParamsFromQuery(r)

	list, err := h.taskService.List(r.Context(), ownerID, params)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while fetching tasks"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", list)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.taskService.Get(r.Context(), ownerID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while fetching task"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", taskPayload{Task: task})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.Create(r.Context(), ownerID, req.toInput())
	if err != nil {
		if verr := domain.AsValidationError(err); verr != nil {
			shared.RespondWithFieldErrors(w, r, verr.Fields)
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while creating task"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Task created successfully", taskPayload{Task: task})
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.taskService.Update(r.Context(), ownerID, taskID, req.toUpdate())
	if err != nil {
		if verr := domain.AsValidationError(err); verr != nil {
			shared.RespondWithFieldErrors(w, r, verr.Fields)
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while updating task"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Task updated successfully", taskPayload{Task: task})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	taskID, err := taskIDFromURL(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.taskService.Delete(r.Context(), ownerID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while deleting task"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Task deleted successfully", nil)
}

// Stats handles GET /api/tasks/stats.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	stats, err := h.taskService.Stats(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err, "Server error while fetching task statistics"),
			err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", statsPayload{Stats: stats})
}

// taskIDFromURL parses the {id} route parameter.
func taskIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// listParamsFromQuery reads the filter and pagination query parameters.
// Unknown filter values are passed through and simply match nothing,
// and unparsable page/limit values fall back to the defaults.
func listParamsFromQuery(r *http.Request) service.ListTasksParams {
	q := r.URL.Query()

	var filter store.TaskFilter
	if v := q.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		filter.Status = &status
	}
	if v := q.Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		filter.Priority = &priority
	}
	filter.Search = q.Get("search")

	params := service.ListTasksParams{Filter: filter}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	return params
}
