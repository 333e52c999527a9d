package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"dashviz/domain/frame"
	"dashviz/internal"
	"dashviz/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV datasets from a local path or
// an http(s) URL. Remote files are fetched with a single GET; there is no
// retry.
type DataReader struct {
	config   SourceConfig
	fileType string // "xlsx" or "csv"
	remote   bool
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type comes from the extension
// of the path (query strings are ignored) and defaults to CSV.
func NewDataReader(config SourceConfig) *DataReader {
	location := config.Location
	remote := false
	p := location
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		remote = true
		p = u.Path
	}

	fileType := "csv"
	if ext := strings.ToLower(path.Ext(p)); ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}

	if config.Client == nil {
		config.Client = &http.Client{Timeout: config.Timeout}
	}

	return &DataReader{
		config:   config,
		fileType: fileType,
		remote:   remote,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// Location returns the configured source
func (r *DataReader) Location() string {
	return r.config.Location
}

// Load reads the dataset and builds a frame from it
func (r *DataReader) Load(ctx context.Context) (*frame.Frame, error) {
	raw, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return frame.New(raw.Headers, raw.Rows)
}

// ReadData reads the raw header and rows
func (r *DataReader) ReadData(ctx context.Context) (*RawTable, error) {
	r.logger.Info("reading %s dataset from %s", r.fileType, r.config.Location)

	body, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	switch r.fileType {
	case "csv":
		return r.readCSVData(body)
	case "xlsx":
		return r.readExcelData(body)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

func (r *DataReader) open(ctx context.Context) (io.ReadCloser, error) {
	if !r.remote {
		f, err := os.Open(r.config.Location)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NotFound(fmt.Sprintf("dataset file %s", r.config.Location))
			}
			return nil, errors.Wrapf(err, "failed to open %s", r.config.Location)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.Location, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build dataset request")
	}
	start := time.Now()
	resp, err := r.config.Client.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("dataset", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.ExternalServiceError("dataset", fmt.Errorf("GET %s: %s", r.config.Location, resp.Status))
	}
	r.logger.Debug("fetched headers in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)
	return resp.Body, nil
}

// readExcelData reads the configured sheet, or the first sheet
func (r *DataReader) readExcelData(body io.Reader) (*RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.DatasetInvalid("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.DatasetInvalid("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// readCSVData reads CSV data; rows may have differing field counts
func (r *DataReader) readCSVData(body io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.ExternalServiceError("dataset", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.DatasetInvalid(err.Error()), "failed to parse CSV")
	}
	r.logger.Debug("CSV parsed in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, errors.DatasetInvalid("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows trims headers and drops fully blank rows
func (r *DataReader) processRows(rows [][]string) (*RawTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Info("%s dataset processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &RawTable{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
