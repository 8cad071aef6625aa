package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"task-service/models"

	"github.com/jmoiron/sqlx"
)

// DefaultPageLimit is used when the caller supplies no usable limit.
const DefaultPageLimit = 5

// TaskStore persists tasks scoped to an owning user. Every read and write
// filters by both task id and owner id, so a task is never visible or
// mutable through another user's identity.
type TaskStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewTaskStore(db *sqlx.DB, timeout time.Duration) *TaskStore {
	return &TaskStore{db: db, timeout: timeout}
}

// Create inserts a task for ownerID with default status "pending".
func (s *TaskStore) Create(ctx context.Context, ownerID int, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrValidation
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	createdAt := time.Now()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (user_id, title, description, status, created_at) VALUES (?, ?, ?, ?, ?)",
		ownerID, title, description, models.StatusPending, createdAt)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &models.Task{
		ID:          int(id),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   createdAt,
	}, nil
}

// ListPage returns one page of ownerID's tasks, newest first, plus the
// owner's total task count and page count. Pages beyond the last come back
// empty with the same metadata. A page or limit that is not positive falls
// back to page 1 / DefaultPageLimit.
func (s *TaskStore) ListPage(ctx context.Context, ownerID, page, limit int) (*models.TaskPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	offset := (page - 1) * limit

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT id, user_id, title, description, status, created_at FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		ownerID, limit, offset)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	var total int
	err = s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM tasks WHERE user_id = ?", ownerID)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	// ceil(total/limit), with an empty list still counting as one page so
	// the client's "page X of Y" display stays well-formed.
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	return &models.TaskPage{
		Tasks:       tasks,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
	}, nil
}

// Update applies the provided fields to a task matching both taskID and
// ownerID. No matching row means ErrNotFound, whether the task does not
// exist or belongs to someone else.
func (s *TaskStore) Update(ctx context.Context, ownerID, taskID int, fields models.UpdateTaskRequest) (*models.Task, error) {
	setParts := []string{}
	args := []interface{}{}

	if fields.Title != nil {
		if strings.TrimSpace(*fields.Title) == "" {
			return nil, ErrValidation
		}
		setParts = append(setParts, "title = ?")
		args = append(args, *fields.Title)
	}
	if fields.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *fields.Description)
	}
	if fields.Status != nil {
		if !models.ValidStatus(*fields.Status) {
			return nil, ErrValidation
		}
		setParts = append(setParts, "status = ?")
		args = append(args, *fields.Status)
	}

	if len(setParts) == 0 {
		return nil, ErrValidation
	}

	args = append(args, taskID, ownerID)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// One atomic statement: the RETURNING clause hands back the mutated row,
	// so there is no window for a concurrent write between update and read.
	query := "UPDATE tasks SET " + strings.Join(setParts, ", ") +
		" WHERE id = ? AND user_id = ? RETURNING id, user_id, title, description, status, created_at"

	var task models.Task
	err := s.db.GetContext(ctx, &task, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &task, nil
}

// Delete removes ownerID's task with taskID; ErrNotFound when no owned row
// matches.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, ownerID)
	if err != nil {
		return mapError(ctx, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapError(ctx, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
