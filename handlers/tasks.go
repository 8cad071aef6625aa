package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"task-service/models"
	"task-service/store"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// listCacheTTL bounds how long an evicted-version page can linger.
const listCacheTTL = 30 * time.Second

// TaskHandler handles the task CRUD operations. All routes sit behind the
// bearer-auth gate; the owner is always the authenticated identity.
type TaskHandler struct {
	tasks *store.TaskStore
	cache cache.Cache // nil disables response caching
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *store.TaskStore, cache cache.Cache) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		cache: cache,
	}
}

// Create handles POST /tasks
func (h *TaskHandler) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(ctx)
	if !ok {
		unauthenticated(ctx, w)
		return
	}
	h.createTask(ctx, w, r, userID)
}

// List handles GET /tasks?page&limit
func (h *TaskHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(ctx)
	if !ok {
		unauthenticated(ctx, w)
		return
	}
	h.listTasks(ctx, w, r, userID)
}

// Update handles PUT /tasks/{id}
func (h *TaskHandler) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(ctx)
	if !ok {
		unauthenticated(ctx, w)
		return
	}
	h.updateTask(ctx, w, r, userID)
}

// Delete handles DELETE /tasks/{id}
func (h *TaskHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(ctx)
	if !ok {
		unauthenticated(ctx, w)
		return
	}
	h.deleteTask(ctx, w, r, userID)
}

func unauthenticated(ctx context.Context, w http.ResponseWriter) {
	logRequest(ctx, "error", "No authenticated user on protected route")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(errs.NewValidationError("Not authenticated"))
}

func (h *TaskHandler) createTask(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	logRequest(ctx, "info", "Creating task", zap.Int("user_id", userID))

	task, err := h.tasks.Create(ctx, userID, req.Title, req.Description)
	if errors.Is(err, store.ErrValidation) {
		logRequest(ctx, "error", "Empty task title", zap.Int("user_id", userID))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Title is required"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to create task", zap.Error(err), zap.Int("user_id", userID))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	h.bumpListVersion(userID)

	logRequest(ctx, "info", "Task created", zap.Int("user_id", userID), zap.Int("task_id", task.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) listTasks(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", store.DefaultPageLimit)

	logRequest(ctx, "info", "Listing tasks", zap.Int("user_id", userID), zap.Int("page", page), zap.Int("limit", limit))

	// Try cache first; keys embed a per-owner version so any write since the
	// last read misses.
	cacheKey := h.listCacheKey(userID, page, limit)
	if h.cache != nil {
		if cached, err := h.cache.Get(cacheKey); err == nil {
			if body, ok := cached.([]byte); ok {
				logRequest(ctx, "debug", "Serving task page from cache", zap.Int("user_id", userID))
				w.Header().Set("Content-Type", "application/json")
				w.Write(body)
				return
			}
		}
	}

	result, err := h.tasks.ListPage(ctx, userID, page, limit)
	if err != nil {
		logRequest(ctx, "error", "Failed to list tasks", zap.Error(err), zap.Int("user_id", userID))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	response, _ := json.Marshal(result)
	if h.cache != nil {
		h.cache.Set(cacheKey, response, listCacheTTL)
	}

	logRequest(ctx, "info", "Tasks retrieved", zap.Int("user_id", userID), zap.Int("count", len(result.Tasks)))

	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

func (h *TaskHandler) updateTask(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) {
	taskID, ok := pathTaskID(ctx, w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, "error", "Invalid request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid JSON"))
		return
	}

	logRequest(ctx, "info", "Updating task", zap.Int("user_id", userID), zap.Int("task_id", taskID))

	task, err := h.tasks.Update(ctx, userID, taskID, req)
	if errors.Is(err, store.ErrValidation) {
		logRequest(ctx, "error", "Invalid task fields", zap.Int("task_id", taskID))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid task fields"))
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Task not found for update", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Task not found or unauthorized"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to update task", zap.Error(err), zap.Int("task_id", taskID))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	h.bumpListVersion(userID)

	logRequest(ctx, "info", "Task updated", zap.Int("user_id", userID), zap.Int("task_id", taskID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) deleteTask(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) {
	taskID, ok := pathTaskID(ctx, w, r)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Deleting task", zap.Int("user_id", userID), zap.Int("task_id", taskID))

	err := h.tasks.Delete(ctx, userID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		logRequest(ctx, "info", "Task not found for deletion", zap.Int("user_id", userID), zap.Int("task_id", taskID))
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errs.NewNotFoundError("Task not found or unauthorized"))
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to delete task", zap.Error(err), zap.Int("task_id", taskID))
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errs.NewInternalServerError("Database error"))
		return
	}

	h.bumpListVersion(userID)

	logRequest(ctx, "info", "Task deleted", zap.Int("user_id", userID), zap.Int("task_id", taskID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Task deleted"})
}

// pathTaskID parses the {id} path variable.
func pathTaskID(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		logRequest(ctx, "error", "Invalid task ID", zap.String("id", idStr))
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errs.NewValidationError("Invalid task ID"))
		return 0, false
	}
	return id, true
}

// queryInt parses a query parameter, falling back on absent, malformed or
// non-positive values.
func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func (h *TaskHandler) listCacheKey(userID, page, limit int) string {
	return fmt.Sprintf("tasks:%d:v%s:p%d:l%d", userID, h.listVersion(userID), page, limit)
}

// listVersion reads the owner's list version stamp; "0" when absent.
func (h *TaskHandler) listVersion(userID int) string {
	if h.cache == nil {
		return "0"
	}
	cached, err := h.cache.Get(fmt.Sprintf("tasks:ver:%d", userID))
	if err != nil {
		return "0"
	}
	switch v := cached.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return "0"
}

// bumpListVersion invalidates every cached page for the owner by moving the
// version stamp forward.
func (h *TaskHandler) bumpListVersion(userID int) {
	if h.cache == nil {
		return
	}
	h.cache.Set(fmt.Sprintf("tasks:ver:%d", userID), strconv.FormatInt(time.Now().UnixNano(), 10), 24*time.Hour)
}
