package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dashviz/app"
	"dashviz/internal/errors"
	"dashviz/internal/profiling"
)

// apiReport is the result of running one dashboard's update function for
// the JSON and export endpoints.
type apiReport struct {
	payload interface{}
	panels  []app.Panel
	empty   bool
}

func (s *Server) apiReport(c *gin.Context) (string, *apiReport, error) {
	dashboard := c.Param("dashboard")
	ctx := c.Request.Context()

	switch {
	case dashboard == "wildfire" && s.deps.Wildfire != nil:
		report, err := s.deps.Wildfire.Report(ctx, wildfireQuery(c))
		if err != nil {
			return dashboard, nil, err
		}
		return dashboard, &apiReport{payload: report, panels: report.Panels, empty: report.Empty()}, nil
	case dashboard == "autosales" && s.deps.AutoSales != nil:
		report, err := s.deps.AutoSales.Report(ctx, autoSalesQuery(c))
		if err != nil {
			return dashboard, nil, err
		}
		return dashboard, &apiReport{payload: report, panels: report.Panels, empty: report.Empty()}, nil
	default:
		return dashboard, nil, errors.NotFound("dashboard " + strconv.Quote(dashboard))
	}
}

// handleReportJSON returns the chart specs of one update as JSON
func (s *Server) handleReportJSON(c *gin.Context) {
	dashboard, report, err := s.apiReport(c)
	if err != nil {
		s.logger.Warn("[%s] report %s: %v", c.GetString(requestIDKey), dashboard, err)
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, report.payload)
}

// handleExport downloads the aggregated tables behind the current charts
func (s *Server) handleExport(c *gin.Context) {
	if s.deps.Exporter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export is not enabled"})
		return
	}
	dashboard, report, err := s.apiReport(c)
	if err == nil && report.empty {
		err = errors.NotFound("report data for the current selection")
	}
	if err != nil {
		s.logger.Warn("[%s] export %s: %v", c.GetString(requestIDKey), dashboard, err)
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	var buf bytes.Buffer
	if err := s.deps.Exporter.Export(&buf, app.Sheets(report.panels)); err != nil {
		s.logger.Error("[%s] export %s: %v", c.GetString(requestIDKey), dashboard, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("%s-report%s", dashboard, s.deps.Exporter.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, s.deps.Exporter.ContentType(), buf.Bytes())
}

// handleProfile returns summary statistics of the numeric dataset columns
func (s *Server) handleProfile(c *gin.Context) {
	dashboard := c.Param("dashboard")

	var profile func() ([]profiling.ColumnProfile, error)
	switch {
	case dashboard == "wildfire" && s.deps.Wildfire != nil:
		profile = s.deps.Wildfire.Profile
	case dashboard == "autosales" && s.deps.AutoSales != nil:
		profile = s.deps.AutoSales.Profile
	default:
		err := errors.NotFound("dashboard " + strconv.Quote(dashboard))
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	columns, err := profile()
	if err != nil {
		s.logger.Error("[%s] profile %s: %v", c.GetString(requestIDKey), dashboard, err)
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": dashboard, "columns": columns})
}
