package excel

import (
	"bytes"
	"strings"
	"testing"

	"dashviz/domain/frame"
	"dashviz/internal/errors"
	"dashviz/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWritesOneSheetPerSummary(t *testing.T) {
	f, err := frame.New([]string{"Month", "Count"}, [][]string{
		{"February", "2"}, {"January", "4"}, {"January", "6"}, {"March", ""},
	})
	require.NoError(t, err)
	monthly, err := f.GroupBy("Month").Agg("Count", frame.Mean)
	require.NoError(t, err)
	monthly = monthly.OrderBy(frame.MonthOrder)

	var buf bytes.Buffer
	exp := NewExporter()
	err = exp.Export(&buf, []ports.SummarySheet{
		{Name: "monthly/area", Title: "Monthly area", Summary: monthly},
		{Name: "monthly/area", Title: "Duplicate name"},
		{Name: strings.Repeat("x", 40), Title: "Long"},
	})
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", exp.Extension())

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	sheets := wb.GetSheetList()
	require.Len(t, sheets, 3)
	assert.Equal(t, "monthly-area", sheets[0])
	assert.Equal(t, "monthly-area~2", sheets[1])
	assert.Len(t, sheets[2], maxSheetName)

	rows, err := wb.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Monthly area"}, rows[0])
	assert.Equal(t, []string{"Month", "mean(Count)", "n"}, rows[1])
	assert.Equal(t, []string{"January", "5", "2"}, rows[2])
	assert.Equal(t, []string{"February", "2", "1"}, rows[3])
	assert.Equal(t, []string{"March", "", "1"}, rows[4], "NaN is written as an empty cell")
}

func TestExportNothing(t *testing.T) {
	err := NewExporter().Export(&bytes.Buffer{}, nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
