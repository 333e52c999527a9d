package excel

import (
	"net/http"
	"time"
)

// SourceConfig holds configuration for a CSV/XLSX data source
type SourceConfig struct {
	Location string        `json:"location"`
	Sheet    string        `json:"sheet"`
	Timeout  time.Duration `json:"timeout"`
	// Client is used for http(s) locations; nil means a client with Timeout
	Client *http.Client `json:"-"`
}

// DefaultSourceConfig returns sensible defaults for dataset loading
func DefaultSourceConfig(location string) SourceConfig {
	return SourceConfig{
		Location: location,
		Timeout:  30 * time.Second,
	}
}
