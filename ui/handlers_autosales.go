package ui

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dashviz/app"
)

type autoSalesPage struct {
	Title       string
	Statistics  []app.Option
	YearControl yearControl
	Output      *autoSalesOutput
}

// yearControl is the year dropdown, swapped on every report-type change
type yearControl struct {
	Years    []int
	Selected int
	Disabled bool
}

type autoSalesOutput struct {
	Report    *app.AutoSalesReport
	Charts    []chartView
	ExportURL string
}

func autoSalesQuery(c *gin.Context) app.AutoSalesQuery {
	return app.AutoSalesQuery{
		Statistics: c.Query("statistics"),
		Year:       app.ParseYear(c.Query("year")),
	}
}

func autoSalesExportURL(q app.AutoSalesQuery) string {
	v := url.Values{"statistics": {q.Statistics}}
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	return "/api/autosales/export.xlsx?" + v.Encode()
}

func (s *Server) buildAutoSalesOutput(c *gin.Context, q app.AutoSalesQuery) (*autoSalesOutput, error) {
	start := time.Now()
	report, err := s.deps.AutoSales.Report(c.Request.Context(), q)
	if err != nil {
		s.observeUpdate("autosales", start, false, err)
		return nil, err
	}
	charts, err := s.renderPanels(report.Panels)
	s.observeUpdate("autosales", start, report.Empty(), err)
	if err != nil {
		return nil, err
	}
	out := &autoSalesOutput{Report: report, Charts: charts}
	if !report.Empty() && s.deps.Exporter != nil {
		out.ExportURL = autoSalesExportURL(q)
	}
	return out, nil
}

func (s *Server) buildYearControl(q app.AutoSalesQuery) yearControl {
	return yearControl{
		Years:    s.deps.AutoSales.Years(),
		Selected: q.Year,
		Disabled: app.YearSelectorDisabled(q.Statistics),
	}
}

// handleAutoSalesPage starts with nothing selected, so the output area is
// empty and the year dropdown disabled.
func (s *Server) handleAutoSalesPage(c *gin.Context) {
	q := app.AutoSalesQuery{}
	out, err := s.buildAutoSalesOutput(c, q)
	if err != nil {
		s.renderErrorPage(c, "Automobile Sales Statistics Dashboard", err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "autosales.html", autoSalesPage{
		Title:       "Automobile Sales Statistics Dashboard",
		Statistics:  s.deps.AutoSales.Statistics(),
		YearControl: s.buildYearControl(q),
		Output:      out,
	})
}

func (s *Server) handleYearControl(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "year_control", s.buildYearControl(autoSalesQuery(c)))
}

func (s *Server) handleAutoSalesUpdate(c *gin.Context) {
	out, err := s.buildAutoSalesOutput(c, autoSalesQuery(c))
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, "autosales_output", out)
}
