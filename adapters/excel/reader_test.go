package excel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"dashviz/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const firesCSV = "\xef\xbb\xbfRegion,Date,Estimated_fire_area,Count\n" +
	"NSW,2005-01-04,8.68,312\n" +
	" VI ,2005-01-05,1.5,4\n" +
	",,,\n" +
	"WA,2005-02-01,3\n"

func TestReadLocalCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fires.csv")
	require.NoError(t, os.WriteFile(p, []byte(firesCSV), 0o644))

	reader := NewDataReader(DefaultSourceConfig(p))
	assert.Equal(t, p, reader.Location())

	raw, err := reader.ReadData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Date", "Estimated_fire_area", "Count"}, raw.Headers, "BOM is stripped")
	assert.Len(t, raw.Rows, 3, "blank rows are skipped")

	f, err := reader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, "VI", f.Value(1, "Region"))
	assert.Equal(t, "", f.Value(2, "Count"), "short row is padded")
}

func TestReadRemoteCSV(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/Data%20Files/fires.csv", r.URL.EscapedPath())
		_, _ = w.Write([]byte(firesCSV))
	}))
	defer srv.Close()

	reader := NewDataReader(DefaultSourceConfig(srv.URL + "/Data%20Files/fires.csv?v=1"))
	f, err := reader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 1, hits)
}

func TestReadRemoteFailureIsNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewDataReader(DefaultSourceConfig(srv.URL + "/fires.csv")).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
	assert.Equal(t, 1, hits)
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewDataReader(DefaultSourceConfig(filepath.Join(t.TempDir(), "nope.csv"))).Load(context.Background())
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestReadHeaderOnlyCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b\n"), 0o644))

	_, err := NewDataReader(DefaultSourceConfig(p)).Load(context.Background())
	assert.Equal(t, errors.CodeDatasetInvalid, errors.GetCode(err))
}

func TestReadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Year", "Vehicle_Type", "Automobile_Sales"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{1980, "SUV", 10.5}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A3", &[]interface{}{1981, "Sports", 3}))
	p := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, wb.SaveAs(p))
	require.NoError(t, wb.Close())

	f, err := NewDataReader(DefaultSourceConfig(p)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())

	sales, err := f.Floats("Automobile_Sales")
	require.NoError(t, err)
	assert.Equal(t, []float64{10.5, 3}, sales)
}
