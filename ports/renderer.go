package ports

import (
	"io"

	"dashviz/domain/chart"
)

// ChartRendererPort draws a chart spec. Implementations write nothing for
// an empty spec.
type ChartRendererPort interface {
	Render(spec chart.Spec, w io.Writer) error
	ContentType() string
}
