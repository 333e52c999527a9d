package ui

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dashviz/app"
	"dashviz/internal/errors"
)

type wildfirePage struct {
	Title   string
	Regions []app.Option
	Years   []int
	Query   app.WildfireQuery
	Output  *wildfireOutput
}

type wildfireOutput struct {
	Report    *app.WildfireReport
	Charts    []chartView
	ExportURL string
}

func wildfireQuery(c *gin.Context) app.WildfireQuery {
	return app.WildfireQuery{
		Region: c.Query("region"),
		Year:   app.ParseYear(c.Query("year")),
	}
}

func wildfireExportURL(q app.WildfireQuery) string {
	v := url.Values{"region": {q.Region}, "year": {strconv.Itoa(q.Year)}}
	return "/api/wildfire/export.xlsx?" + v.Encode()
}

// buildWildfireOutput runs the update function and renders its charts
func (s *Server) buildWildfireOutput(c *gin.Context, q app.WildfireQuery) (*wildfireOutput, error) {
	start := time.Now()
	report, err := s.deps.Wildfire.Report(c.Request.Context(), q)
	if err != nil {
		s.observeUpdate("wildfire", start, false, err)
		return nil, err
	}
	charts, err := s.renderPanels(report.Panels)
	s.observeUpdate("wildfire", start, report.Empty(), err)
	if err != nil {
		return nil, err
	}
	out := &wildfireOutput{Report: report, Charts: charts}
	if !report.Empty() && s.deps.Exporter != nil {
		out.ExportURL = wildfireExportURL(q)
	}
	return out, nil
}

func (s *Server) handleWildfirePage(c *gin.Context) {
	q := s.deps.Wildfire.DefaultQuery()
	out, err := s.buildWildfireOutput(c, q)
	if err != nil {
		s.renderErrorPage(c, "Australia Wildfire Dashboard", err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "wildfire.html", wildfirePage{
		Title:   "Australia Wildfire Dashboard",
		Regions: s.deps.Wildfire.Regions(),
		Years:   s.deps.Wildfire.Years(),
		Query:   q,
		Output:  out,
	})
}

func (s *Server) handleWildfireUpdate(c *gin.Context) {
	out, err := s.buildWildfireOutput(c, wildfireQuery(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "wildfire_output", out)
}

// renderError answers an HTMX request with an inline error fragment. The
// layout swaps error responses into the target like any other.
func (s *Server) renderError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	s.logger.Error("[%s] %s failed: %v", c.GetString(requestIDKey), c.Request.URL.Path, err)
	s.renderTemplate(c, status, "error_fragment", gin.H{"Status": status, "Message": err.Error()})
}

// renderErrorPage answers a full page load that failed
func (s *Server) renderErrorPage(c *gin.Context, title string, err error) {
	status := errors.HTTPStatus(err)
	s.logger.Error("[%s] %s failed: %v", c.GetString(requestIDKey), c.Request.URL.Path, err)
	s.renderTemplate(c, status, "error.html", gin.H{"Title": title, "Status": status, "Message": err.Error()})
}
