package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

type dashboardLink struct {
	Name        string
	Path        string
	Description template.HTML
}

type indexPage struct {
	Title      string
	Dashboards []dashboardLink
}

// handleIndex lists the served dashboards with their descriptions
func (s *Server) handleIndex(c *gin.Context) {
	page := indexPage{Title: "Dashboards"}

	add := func(name, path, doc string) {
		desc, err := renderMarkdown(doc)
		if err != nil {
			s.logger.Warn("description %s: %v", doc, err)
		}
		page.Dashboards = append(page.Dashboards, dashboardLink{Name: name, Path: path, Description: desc})
	}
	if s.deps.Wildfire != nil {
		add("Australia Wildfire Dashboard", "/wildfire", "wildfire.md")
	}
	if s.deps.AutoSales != nil {
		add("Automobile Sales Statistics Dashboard", "/autosales", "autosales.md")
	}

	s.renderTemplate(c, http.StatusOK, "index.html", page)
}
