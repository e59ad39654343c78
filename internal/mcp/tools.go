package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/store"
)

// Tool argument and result contracts. Field names and tool names mirror the
// wire contract consumed by existing clients; changing them is a breaking
// change.

type listProjectsInput struct{}

type listProjectsOutput struct {
	Projects []store.ProjectSummary `json:"projects" jsonschema:"Project summaries ordered by most recent activity"`
	Count    int                    `json:"count" jsonschema:"Number of projects returned"`
}

type createProjectInput struct {
	Name        string `json:"name" jsonschema:"required,The name of the project"`
	Description string `json:"description,omitempty" jsonschema:"Optional description of the project"`
}

type getProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,The unique ID of the project"`
}

type deleteProjectInput struct {
	ProjectID string `json:"project_id" jsonschema:"required,The unique ID of the project to delete"`
}

type createTaskInput struct {
	ProjectID   string `json:"project_id" jsonschema:"required,The ID of the project to add the task to"`
	Description string `json:"description" jsonschema:"required,Description of the task"`
	Category    string `json:"category" jsonschema:"required,Category label (e.g. 'testing' or 'ux')"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,The unique ID of the task"`
	Status string `json:"status" jsonschema:"required,New status: backlog in_progress review or complete"`
}

type deleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,The unique ID of the task to delete"`
}

type statsInput struct{}

// operationResponse reports the outcome of a delete. Deleting something
// that is already gone is a non-error: success=false with an explanation.
type operationResponse struct {
	Success bool   `json:"success" jsonschema:"Whether the operation took effect"`
	Message string `json:"message" jsonschema:"Human-readable outcome"`
}

// registerTools registers all trackd tools with the SDK server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all existing projects with summary information",
	}, s.handleListProjects)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a new project",
	}, s.handleCreateProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_project",
		Description: "Get a project with all its tasks and per-status counts",
	}, s.handleGetProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and all its tasks",
	}, s.handleDeleteProject)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_task",
		Description: "Add a task to a project",
	}, s.handleCreateTask)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_task_status",
		Description: "Update the status of a task",
	}, s.handleUpdateTaskStatus)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task from a project",
	}, s.handleDeleteTask)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_project_stats",
		Description: "Get overall statistics about all projects and tasks",
	}, s.handleStats)
}

func (s *Server) handleListProjects(ctx context.Context, req *mcp.CallToolRequest, args listProjectsInput) (*mcp.CallToolResult, listProjectsOutput, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "list_projects", time.Since(start), toolErr) }()

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		toolErr = err
		return nil, listProjectsOutput{}, err
	}
	return nil, listProjectsOutput{Projects: projects, Count: len(projects)}, nil
}

func (s *Server) handleCreateProject(ctx context.Context, req *mcp.CallToolRequest, args createProjectInput) (*mcp.CallToolResult, store.Project, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "create_project", time.Since(start), toolErr) }()

	project, err := s.store.CreateProject(ctx, args.Name, args.Description)
	if err != nil {
		toolErr = err
		return nil, store.Project{}, err
	}
	s.logger.Info("project created", zap.String("project_id", project.ID))
	return nil, *project, nil
}

func (s *Server) handleGetProject(ctx context.Context, req *mcp.CallToolRequest, args getProjectInput) (*mcp.CallToolResult, store.ProjectDetails, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "get_project", time.Since(start), toolErr) }()

	details, err := s.store.GetProject(ctx, args.ProjectID)
	if err != nil {
		toolErr = err
		return nil, store.ProjectDetails{}, describeStoreError(err, "project", args.ProjectID)
	}
	return nil, *details, nil
}

func (s *Server) handleDeleteProject(ctx context.Context, req *mcp.CallToolRequest, args deleteProjectInput) (*mcp.CallToolResult, operationResponse, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "delete_project", time.Since(start), toolErr) }()

	deleted, err := s.store.DeleteProject(ctx, args.ProjectID)
	if err != nil {
		toolErr = err
		return nil, operationResponse{}, err
	}
	if !deleted {
		return nil, operationResponse{
			Success: false,
			Message: fmt.Sprintf("project with ID %s not found", args.ProjectID),
		}, nil
	}
	s.logger.Info("project deleted", zap.String("project_id", args.ProjectID))
	return nil, operationResponse{
		Success: true,
		Message: fmt.Sprintf("project %s deleted successfully", args.ProjectID),
	}, nil
}

func (s *Server) handleCreateTask(ctx context.Context, req *mcp.CallToolRequest, args createTaskInput) (*mcp.CallToolResult, store.Task, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "create_task", time.Since(start), toolErr) }()

	task, err := s.store.CreateTask(ctx, args.ProjectID, args.Description, args.Category)
	if err != nil {
		toolErr = err
		return nil, store.Task{}, describeStoreError(err, "project", args.ProjectID)
	}
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID))
	return nil, *task, nil
}

func (s *Server) handleUpdateTaskStatus(ctx context.Context, req *mcp.CallToolRequest, args updateTaskStatusInput) (*mcp.CallToolResult, store.Task, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "update_task_status", time.Since(start), toolErr) }()

	status, err := store.ParseStatus(args.Status)
	if err != nil {
		toolErr = err
		return nil, store.Task{}, err
	}

	task, err := s.store.UpdateTaskStatus(ctx, args.TaskID, status)
	if err != nil {
		toolErr = err
		return nil, store.Task{}, describeStoreError(err, "task", args.TaskID)
	}
	s.logger.Info("task status updated",
		zap.String("task_id", task.ID),
		zap.String("status", string(task.Status)))
	return nil, *task, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, req *mcp.CallToolRequest, args deleteTaskInput) (*mcp.CallToolResult, operationResponse, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "delete_task", time.Since(start), toolErr) }()

	deleted, err := s.store.DeleteTask(ctx, args.TaskID)
	if err != nil {
		toolErr = err
		return nil, operationResponse{}, err
	}
	if !deleted {
		return nil, operationResponse{
			Success: false,
			Message: fmt.Sprintf("task with ID %s not found", args.TaskID),
		}, nil
	}
	s.logger.Info("task deleted", zap.String("task_id", args.TaskID))
	return nil, operationResponse{
		Success: true,
		Message: fmt.Sprintf("task %s deleted successfully", args.TaskID),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, args statsInput) (*mcp.CallToolResult, store.Stats, error) {
	start := time.Now()
	var toolErr error
	defer func() { s.metrics.RecordInvocation(ctx, "get_project_stats", time.Since(start), toolErr) }()

	stats, err := s.store.Stats(ctx)
	if err != nil {
		toolErr = err
		return nil, store.Stats{}, err
	}
	return nil, *stats, nil
}

// describeStoreError rewrites not-found sentinels with the offending id so
// tool callers see which entity was missing. Other errors pass through.
func describeStoreError(err error, kind, id string) error {
	switch {
	case errors.Is(err, store.ErrProjectNotFound), errors.Is(err, store.ErrTaskNotFound):
		return fmt.Errorf("%s with ID %s not found", kind, id)
	default:
		return err
	}
}
