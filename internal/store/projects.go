package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ListProjects returns one summary per project, most recently active first.
// Task counts are computed from the join on every call; an empty store
// yields an empty slice, not an error.
func (s *Store) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.created_at, p.updated_at,
		       COUNT(t.id) AS task_count
		FROM projects p
		LEFT JOIN tasks t ON p.id = t.project_id
		GROUP BY p.id
		ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	summaries := make([]ProjectSummary, 0)
	for rows.Next() {
		var (
			summary            ProjectSummary
			createdAt, updated string
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Description,
			&createdAt, &updated, &summary.TaskCount); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if summary.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return summaries, nil
}

// CreateProject inserts a new project with a fresh id and identical
// created_at/updated_at. The name must be non-blank after trimming; the
// description may be empty.
func (s *Store) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	project := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now(),
	}
	project.UpdatedAt = project.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description,
		formatTime(project.CreatedAt), formatTime(project.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return project, nil
}

// GetProject returns the project with its full task list (newest task
// first) and a per-status count. Returns ErrProjectNotFound when no such
// project exists.
func (s *Store) GetProject(ctx context.Context, id string) (*ProjectDetails, error) {
	details := &ProjectDetails{ID: id}

	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, description, created_at, updated_at
		FROM projects WHERE id = ?`, id,
	).Scan(&details.Name, &details.Description, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	if details.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if details.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	tasks, err := s.tasksByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	details.Tasks = tasks
	details.TaskStats = newTaskStats()
	for _, task := range tasks {
		details.TaskStats[task.Status]++
	}
	return details, nil
}

// DeleteProject removes the project and all of its tasks in one
// transaction. Returns false when no project with that id exists; a missing
// project is not an error.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tasks for project %s: %w", id, err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete project %s: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// tasksByProject loads a project's tasks ordered newest-created-first.
func (s *Store) tasksByProject(ctx context.Context, projectID string) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, description, category, status, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for project %s: %w", projectID, err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
