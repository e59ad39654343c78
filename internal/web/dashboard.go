package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/trackd/internal/store"
)

//go:embed assets
var assetsFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(assetsFS, "assets/templates/dashboard.html.tmpl"))

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Projects []store.ProjectSummary
	Stats    *store.Stats
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return s.mapStoreError(c, err)
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return s.mapStoreError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return dashboardTmpl.Execute(c.Response(), dashboardData{
		Projects: projects,
		Stats:    stats,
	})
}
