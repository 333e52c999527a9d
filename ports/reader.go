package ports

import (
	"context"

	"dashviz/domain/frame"
)

// DatasetSourcePort loads the table behind a dashboard. It is called once
// at startup; the returned frame is treated as read-only for the life of
// the process.
type DatasetSourcePort interface {
	Load(ctx context.Context) (*frame.Frame, error)
	// Location names where the data comes from, for logs and the UI
	Location() string
}
