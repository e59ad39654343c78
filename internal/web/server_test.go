package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trackd/internal/store"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	srv, err := NewServer(st, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

// do runs a request against the server and returns the recorded response.
func do(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func createProject(t *testing.T, srv *Server, name string) store.Project {
	t.Helper()
	rec := do(srv, http.MethodPost, "/api/projects",
		fmt.Sprintf(`{"name":%q,"description":"test project"}`, name))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project store.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	return project
}

func TestNewServer(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.Error(t, err)
	})

	t.Run("requires a logger", func(t *testing.T) {
		st, err := store.Open(context.Background(), ":memory:", zap.NewNop())
		require.NoError(t, err)
		defer st.Close()

		_, err = NewServer(st, nil, nil)
		assert.Error(t, err)
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t)

	rec := do(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestProjectEndpoints(t *testing.T) {
	srv := setupServer(t)

	t.Run("list starts empty", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/projects", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var projects []store.ProjectSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
		assert.Empty(t, projects)
	})

	t.Run("create rejects blank name", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects", `{"name":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create rejects malformed body", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create then fetch round trip", func(t *testing.T) {
		project := createProject(t, srv, "Web Redesign")

		rec := do(srv, http.MethodGet, "/api/projects/"+project.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var details store.ProjectDetails
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
		assert.Equal(t, "Web Redesign", details.Name)
		assert.Empty(t, details.Tasks)
	})

	t.Run("fetch unknown project returns 404", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/projects/ghost", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete project", func(t *testing.T) {
		project := createProject(t, srv, "Doomed")

		rec := do(srv, http.MethodDelete, "/api/projects/"+project.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp OperationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		rec = do(srv, http.MethodDelete, "/api/projects/"+project.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEndpoints(t *testing.T) {
	srv := setupServer(t)
	project := createProject(t, srv, "Parent")

	t.Run("create task under missing project returns 404", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects/ghost/tasks",
			`{"description":"orphan","category":"misc"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create task lands in backlog", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects/"+project.ID+"/tasks",
			`{"description":"Design homepage mockup","category":"ux"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var task store.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, store.StatusBacklog, task.Status)
	})

	t.Run("status update lifecycle", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects/"+project.ID+"/tasks",
			`{"description":"move me","category":"qa"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var task store.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

		rec = do(srv, http.MethodPut, "/api/tasks/"+task.ID+"/status", `{"status":"in_progress"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		assert.Equal(t, store.StatusInProgress, task.Status)

		rec = do(srv, http.MethodPut, "/api/tasks/"+task.ID+"/status", `{"status":"done"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(srv, http.MethodPut, "/api/tasks/ghost/status", `{"status":"review"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete task", func(t *testing.T) {
		rec := do(srv, http.MethodPost, "/api/projects/"+project.ID+"/tasks",
			`{"description":"temp","category":"misc"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var task store.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))

		rec = do(srv, http.MethodDelete, "/api/tasks/"+task.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(srv, http.MethodDelete, "/api/tasks/"+task.ID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	srv := setupServer(t)

	rec := do(srv, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats store.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalProjects)

	project := createProject(t, srv, "Counted")
	rec = do(srv, http.MethodPost, "/api/projects/"+project.ID+"/tasks",
		`{"description":"count me","category":"misc"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(srv, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.TotalTasks)
}

func TestDashboard(t *testing.T) {
	srv := setupServer(t)
	createProject(t, srv, "Visible Project")

	rec := do(srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Project Dashboard")
	assert.Contains(t, body, "Visible Project")
}

func TestStaticAssets(t *testing.T) {
	srv := setupServer(t)

	rec := do(srv, http.MethodGet, "/static/css/main.css", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project Tracker")
}
