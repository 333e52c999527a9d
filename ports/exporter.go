package ports

import (
	"io"

	"dashviz/domain/frame"
)

// SummarySheet is one aggregated table destined for an export
type SummarySheet struct {
	Name    string
	Title   string
	Summary *frame.Summary
}

// SummaryExporterPort writes aggregated tables in a downloadable format
type SummaryExporterPort interface {
	Export(w io.Writer, sheets []SummarySheet) error
	ContentType() string
	Extension() string
}
