package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateTask inserts a task into an existing project and bumps the parent's
// updated_at to the task's creation time, both in one transaction. The task
// starts in backlog. Returns ErrProjectNotFound (and inserts nothing) when
// the project does not exist.
func (s *Store) CreateTask(ctx context.Context, projectID, description, category string) (*Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, &ValidationError{Field: "category", Reason: "must not be empty"}
	}

	task := &Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Description: description,
		Category:    category,
		Status:      StatusBacklog,
		CreatedAt:   now(),
	}
	task.UpdatedAt = task.CreatedAt

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProjectNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check project %s: %w", projectID, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, project_id, description, category, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.ProjectID, task.Description, task.Category,
			string(task.Status), formatTime(task.CreatedAt), formatTime(task.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}

		return touchProject(ctx, tx, projectID, formatTime(task.CreatedAt))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus sets the task's status and updated_at and bumps the
// parent project's updated_at to the same instant, in one transaction.
// The status is re-validated here even though callers parse it first.
// Returns ErrTaskNotFound without touching any row when the task is absent.
func (s *Store) UpdateTaskStatus(ctx context.Context, taskID string, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, &ValidationError{
			Field:  "status",
			Reason: "must be one of: backlog, in_progress, review, complete",
		}
	}

	var task *Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, project_id, description, category, status, created_at, updated_at
			FROM tasks WHERE id = ?`, taskID)
		current, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTaskNotFound
		}
		if err != nil {
			return err
		}

		updatedAt := now()
		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
			string(status), formatTime(updatedAt), taskID); err != nil {
			return fmt.Errorf("failed to update task %s: %w", taskID, err)
		}

		if err := touchProject(ctx, tx, current.ProjectID, formatTime(updatedAt)); err != nil {
			return err
		}

		current.Status = status
		current.UpdatedAt = updatedAt
		task = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task and bumps the parent project's updated_at in
// one transaction. Returns false, with no timestamp changed, when no task
// with that id exists.
func (s *Store) DeleteTask(ctx context.Context, taskID string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var projectID string
		err := tx.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, taskID).Scan(&projectID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up task %s: %w", taskID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID); err != nil {
			return fmt.Errorf("failed to delete task %s: %w", taskID, err)
		}
		if err := touchProject(ctx, tx, projectID, formatTime(now())); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// touchProject bumps a project's updated_at inside an open transaction.
func touchProject(ctx context.Context, tx *sql.Tx, projectID, timestamp string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`, timestamp, projectID); err != nil {
		return fmt.Errorf("failed to touch project %s: %w", projectID, err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*Task, error) {
	var (
		task                 Task
		status               string
		createdAt, updatedAt string
	)
	err := row.Scan(&task.ID, &task.ProjectID, &task.Description, &task.Category,
		&status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task row: %w", err)
	}
	task.Status = Status(status)
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}
