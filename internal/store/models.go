package store

import "time"

// Status is the lifecycle state of a task. Exactly four values are valid;
// the store rejects anything else before it touches a row.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusComplete   Status = "complete"
)

// Statuses returns all valid task statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusBacklog, StatusInProgress, StatusReview, StatusComplete}
}

// Valid reports whether s is one of the four recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusReview, StatusComplete:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
// Returns a *ValidationError for unrecognized values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", &ValidationError{
			Field:  "status",
			Reason: "must be one of: backlog, in_progress, review, complete",
		}
	}
	return s, nil
}

// Project is a top-level unit of work grouping related tasks.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is a unit of work belonging to exactly one project.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectSummary is the listing view of a project: task count, no task detail.
type ProjectSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectDetails is the full view of a project: its task list ordered
// newest-first plus a per-status task count. TaskStats always carries all
// four status keys, zero-valued when no task has that status.
type ProjectDetails struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Tasks       []Task         `json:"tasks"`
	TaskStats   map[Status]int `json:"task_stats"`
}

// Stats aggregates counts across all projects. Derived from the project
// listing on every call rather than maintained incrementally.
type Stats struct {
	TotalProjects          int     `json:"total_projects"`
	TotalTasks             int     `json:"total_tasks"`
	ProjectsWithTasks      int     `json:"projects_with_tasks"`
	EmptyProjects          int     `json:"empty_projects"`
	AverageTasksPerProject float64 `json:"average_tasks_per_project"`
}

// newTaskStats returns a stats map with all four status keys present.
func newTaskStats() map[Status]int {
	stats := make(map[Status]int, 4)
	for _, s := range Statuses() {
		stats[s] = 0
	}
	return stats
}
