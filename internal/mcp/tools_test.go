package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/trackd/internal/store"
)

func TestHandleCreateProject(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	t.Run("creates and returns the project", func(t *testing.T) {
		_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{
			Name:        "Web Redesign",
			Description: "Complete website overhaul",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, project.ID)
		assert.Equal(t, "Web Redesign", project.Name)
	})

	t.Run("propagates validation failures", func(t *testing.T) {
		_, _, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "   "})
		assert.Error(t, err)
	})
}

func TestHandleListProjects(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	_, list, err := srv.handleListProjects(ctx, nil, listProjectsInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.Empty(t, list.Projects)

	_, _, err = srv.handleCreateProject(ctx, nil, createProjectInput{Name: "One"})
	require.NoError(t, err)

	_, list, err = srv.handleListProjects(ctx, nil, listProjectsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}

func TestHandleGetProject(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	t.Run("reports missing project by id", func(t *testing.T) {
		_, _, err := srv.handleGetProject(ctx, nil, getProjectInput{ProjectID: "ghost"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project with ID ghost not found")
	})

	t.Run("returns details with task stats", func(t *testing.T) {
		_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Detailed"})
		require.NoError(t, err)
		_, _, err = srv.handleCreateTask(ctx, nil, createTaskInput{
			ProjectID:   project.ID,
			Description: "inspect me",
			Category:    "qa",
		})
		require.NoError(t, err)

		_, details, err := srv.handleGetProject(ctx, nil, getProjectInput{ProjectID: project.ID})
		require.NoError(t, err)
		assert.Len(t, details.Tasks, 1)
		assert.Equal(t, 1, details.TaskStats[store.StatusBacklog])
	})
}

func TestHandleDeleteProject(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	t.Run("missing project is a non-error outcome", func(t *testing.T) {
		_, resp, err := srv.handleDeleteProject(ctx, nil, deleteProjectInput{ProjectID: "ghost"})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Message, "not found")
	})

	t.Run("deletes an existing project", func(t *testing.T) {
		_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Doomed"})
		require.NoError(t, err)

		_, resp, err := srv.handleDeleteProject(ctx, nil, deleteProjectInput{ProjectID: project.ID})
		require.NoError(t, err)
		assert.True(t, resp.Success)
	})
}

func TestHandleCreateTask(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	t.Run("reports missing parent project", func(t *testing.T) {
		_, _, err := srv.handleCreateTask(ctx, nil, createTaskInput{
			ProjectID:   "ghost",
			Description: "orphan",
			Category:    "misc",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project with ID ghost not found")
	})

	t.Run("creates task in backlog", func(t *testing.T) {
		_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Parent"})
		require.NoError(t, err)

		_, task, err := srv.handleCreateTask(ctx, nil, createTaskInput{
			ProjectID:   project.ID,
			Description: "Design homepage mockup",
			Category:    "ux",
		})
		require.NoError(t, err)
		assert.Equal(t, store.StatusBacklog, task.Status)
	})
}

func TestHandleUpdateTaskStatus(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Parent"})
	require.NoError(t, err)
	_, task, err := srv.handleCreateTask(ctx, nil, createTaskInput{
		ProjectID:   project.ID,
		Description: "move me",
		Category:    "qa",
	})
	require.NoError(t, err)

	t.Run("rejects unrecognized status before reaching the store", func(t *testing.T) {
		_, _, err := srv.handleUpdateTaskStatus(ctx, nil, updateTaskStatusInput{
			TaskID: task.ID,
			Status: "done",
		})
		require.Error(t, err)
		assert.True(t, store.IsValidation(err))
	})

	t.Run("updates a valid transition", func(t *testing.T) {
		_, updated, err := srv.handleUpdateTaskStatus(ctx, nil, updateTaskStatusInput{
			TaskID: task.ID,
			Status: "review",
		})
		require.NoError(t, err)
		assert.Equal(t, store.StatusReview, updated.Status)
	})

	t.Run("reports missing task", func(t *testing.T) {
		_, _, err := srv.handleUpdateTaskStatus(ctx, nil, updateTaskStatusInput{
			TaskID: "ghost",
			Status: "review",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "task with ID ghost not found")
	})
}

func TestHandleDeleteTask(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	_, resp, err := srv.handleDeleteTask(ctx, nil, deleteTaskInput{TaskID: "ghost"})
	require.NoError(t, err)
	assert.False(t, resp.Success)

	_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Parent"})
	require.NoError(t, err)
	_, task, err := srv.handleCreateTask(ctx, nil, createTaskInput{
		ProjectID:   project.ID,
		Description: "temp",
		Category:    "misc",
	})
	require.NoError(t, err)

	_, resp, err = srv.handleDeleteTask(ctx, nil, deleteTaskInput{TaskID: task.ID})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestHandleStats(t *testing.T) {
	srv := setupServer(t)
	ctx := context.Background()

	_, stats, err := srv.handleStats(ctx, nil, statsInput{})
	require.NoError(t, err)
	assert.Equal(t, store.Stats{}, stats)

	_, project, err := srv.handleCreateProject(ctx, nil, createProjectInput{Name: "Counted"})
	require.NoError(t, err)
	_, _, err = srv.handleCreateTask(ctx, nil, createTaskInput{
		ProjectID:   project.ID,
		Description: "count me",
		Category:    "misc",
	})
	require.NoError(t, err)

	_, stats, err = srv.handleStats(ctx, nil, statsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.TotalTasks)
	assert.Equal(t, 1, stats.ProjectsWithTasks)
}
