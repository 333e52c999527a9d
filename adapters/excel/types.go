package excel

// RawTable is a dataset as read from disk or the network, before any
// type detection: a trimmed header row followed by data rows.
type RawTable struct {
	Headers []string
	Rows    [][]string
}
