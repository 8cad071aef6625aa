package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"task-service/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskFixture(t *testing.T) (*TaskHandler, int, int) {
	t.Helper()
	users, tasks := newTestStores(t)

	alice, err := users.Create(context.Background(), "Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	bob, err := users.Create(context.Background(), "Bob", "bob@example.com", "hash")
	require.NoError(t, err)

	return NewTaskHandler(tasks, nil), alice.ID, bob.ID
}

func createTaskFor(t *testing.T, h *TaskHandler, userID int, title string) models.Task {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"description":""}`, title)
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.createTask(context.Background(), w, req, userID)
	require.Equal(t, http.StatusCreated, w.Code)

	var task models.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&task))
	return task
}

func withTaskID(r *http.Request, id int) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": strconv.Itoa(id)})
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)

	task := createTaskFor(t, h, alice, "Write report")
	assert.Equal(t, alice, task.UserID)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":""}`))
	w := httptest.NewRecorder()
	h.createTask(context.Background(), w, req, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasks_Pagination(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)

	for i := 1; i <= 7; i++ {
		createTaskFor(t, h, alice, fmt.Sprintf("Task %d", i))
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks?page=1&limit=5", nil)
	w := httptest.NewRecorder()
	h.listTasks(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.TaskPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Tasks, 5)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 7, page.TotalTasks)
	assert.Equal(t, "Task 7", page.Tasks[0].Title)

	req = httptest.NewRequest(http.MethodGet, "/tasks?page=2&limit=5", nil)
	w = httptest.NewRecorder()
	h.listTasks(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Len(t, page.Tasks, 2)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestListTasks_DefaultsAndEmpty(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)

	// No query params, no tasks.
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	h.listTasks(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.TaskPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.NotNil(t, page.Tasks)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.TotalTasks)
}

func TestListTasks_MalformedQueryFallsBack(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)
	createTaskFor(t, h, alice, "Only task")

	req := httptest.NewRequest(http.MethodGet, "/tasks?page=zero&limit=-2", nil)
	w := httptest.NewRecorder()
	h.listTasks(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var page models.TaskPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Tasks, 1)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)
	task := createTaskFor(t, h, alice, "Initial")

	body := `{"title":"Renamed","status":"done"}`
	req := withTaskID(httptest.NewRequest(http.MethodPut, "/tasks/1", strings.NewReader(body)), task.ID)
	w := httptest.NewRecorder()
	h.updateTask(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.StatusDone, updated.Status)
}

func TestUpdateTask_WrongOwner(t *testing.T) {
	t.Parallel()
	h, alice, bob := newTaskFixture(t)
	task := createTaskFor(t, h, alice, "Alice only")

	body := `{"title":"hijacked"}`
	req := withTaskID(httptest.NewRequest(http.MethodPut, "/tasks/1", strings.NewReader(body)), task.ID)
	w := httptest.NewRecorder()
	h.updateTask(context.Background(), w, req, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Alice's task untouched.
	listReq := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	listW := httptest.NewRecorder()
	h.listTasks(context.Background(), listW, listReq, alice)

	var page models.TaskPage
	require.NoError(t, json.NewDecoder(listW.Body).Decode(&page))
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Alice only", page.Tasks[0].Title)
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)
	task := createTaskFor(t, h, alice, "Task")

	body := `{"status":"sleeping"}`
	req := withTaskID(httptest.NewRequest(http.MethodPut, "/tasks/1", strings.NewReader(body)), task.ID)
	w := httptest.NewRecorder()
	h.updateTask(context.Background(), w, req, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTask_InvalidID(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)

	req := mux.SetURLVars(
		httptest.NewRequest(http.MethodPut, "/tasks/abc", strings.NewReader(`{}`)),
		map[string]string{"id": "abc"})
	w := httptest.NewRecorder()
	h.updateTask(context.Background(), w, req, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	h, alice, _ := newTaskFixture(t)
	task := createTaskFor(t, h, alice, "Task")

	req := withTaskID(httptest.NewRequest(http.MethodDelete, "/tasks/1", nil), task.ID)
	w := httptest.NewRecorder()
	h.deleteTask(context.Background(), w, req, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, w.Body.String())
}

func TestDeleteTask_WrongOwner(t *testing.T) {
	t.Parallel()
	h, alice, bob := newTaskFixture(t)
	task := createTaskFor(t, h, alice, "Alice only")

	req := withTaskID(httptest.NewRequest(http.MethodDelete, "/tasks/1", nil), task.ID)
	w := httptest.NewRecorder()
	h.deleteTask(context.Background(), w, req, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
