package output

import (
	"context"
	"io"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/reporter"
)

// ConsoleHandler renders records to a writer, normally stdout
type ConsoleHandler struct {
	w        io.Writer
	format   reporter.Format
	renderer reporter.Renderer
}

// NewConsoleHandler creates a console handler for the given format
func NewConsoleHandler(w io.Writer, format reporter.Format) (*ConsoleHandler, error) {
	renderer, err := reporter.New(format)
	if err != nil {
		return nil, err
	}
	return &ConsoleHandler{
		w:        w,
		format:   format,
		renderer: renderer,
	}, nil
}

func (c *ConsoleHandler) Name() string {
	return "console"
}

// Format returns the output format
func (c *ConsoleHandler) Format() reporter.Format {
	return c.format
}

func (c *ConsoleHandler) HandleReport(ctx context.Context, report *models.Report) error {
	return c.renderer.RenderReport(c.w, report)
}

func (c *ConsoleHandler) HandleNotice(ctx context.Context, notice *models.Notice) error {
	return c.renderer.RenderNotice(c.w, notice)
}
