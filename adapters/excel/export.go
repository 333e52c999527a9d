package excel

import (
	"fmt"
	"io"
	"math"
	"strings"

	"dashviz/internal/errors"
	"dashviz/ports"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// Exporter writes aggregated tables to an XLSX workbook, one sheet each
type Exporter struct{}

// NewExporter creates an XLSX exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// ContentType is the MIME type of the produced workbook
func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension is the file extension of the produced workbook
func (e *Exporter) Extension() string {
	return ".xlsx"
}

// Export writes one worksheet per sheet: a title row, a header row with
// the key columns, the reduced value and the group size, then the groups.
func (e *Exporter) Export(w io.Writer, sheets []ports.SummarySheet) error {
	if len(sheets) == 0 {
		return errors.InvalidInput("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for i, sheet := range sheets {
		name := uniqueSheetName(sanitizeSheetName(sheet.Name, i), used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return errors.Wrap(err, "failed to name first sheet")
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "failed to create sheet %s", name)
		}
		if err := writeSummary(f, name, sheet); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

func writeSummary(f *excelize.File, name string, sheet ports.SummarySheet) error {
	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(name, cell, v)
	}

	if err := set(1, 1, sheet.Title); err != nil {
		return errors.Wrapf(err, "failed to write title of %s", name)
	}
	s := sheet.Summary
	if s == nil {
		return nil
	}

	header := append(append([]string(nil), s.Keys...), fmt.Sprintf("%s(%s)", s.Reducer, s.Column), "n")
	for c, h := range header {
		if err := set(c+1, 2, h); err != nil {
			return errors.Wrapf(err, "failed to write header of %s", name)
		}
	}

	for r, row := range s.Rows {
		line := r + 3
		for c, k := range row.Key {
			if err := set(c+1, line, k); err != nil {
				return errors.Wrapf(err, "failed to write row %d of %s", line, name)
			}
		}
		var value interface{} = row.Value
		if math.IsNaN(row.Value) || math.IsInf(row.Value, 0) {
			value = ""
		}
		if err := set(len(row.Key)+1, line, value); err != nil {
			return errors.Wrapf(err, "failed to write row %d of %s", line, name)
		}
		if err := set(len(row.Key)+2, line, row.N); err != nil {
			return errors.Wrapf(err, "failed to write row %d of %s", line, name)
		}
	}
	return nil
}

func sanitizeSheetName(name string, i int) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
