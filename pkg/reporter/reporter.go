package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/opscart/health-monitor/pkg/models"
)

// Format represents the output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// timestampLayout is ISO-8601 with millisecond precision
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Renderer writes reports and notices in one format.
// Each call writes one complete record.
type Renderer interface {
	RenderReport(w io.Writer, report *models.Report) error
	RenderNotice(w io.Writer, notice *models.Notice) error
}

// ParseFormat converts a format name into a Format
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format: %s", name)
	}
}

// New creates a renderer for format
func New(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return &TextRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
