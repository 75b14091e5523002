package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/opscart/health-monitor/pkg/models"
	"gopkg.in/yaml.v3"
)

// Record types carried in an Envelope
const (
	RecordReport = "report"
	RecordNotice = "notice"
)

// Envelope tags a report or notice so a mixed stream can be decoded
type Envelope struct {
	Type   string         `json:"type" yaml:"type"`
	Report *models.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Notice *models.Notice `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// ReportJSON encodes a report envelope as a single JSON document
func ReportJSON(report *models.Report) ([]byte, error) {
	data, err := json.Marshal(Envelope{Type: RecordReport, Report: report})
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// NoticeJSON encodes a notice envelope as a single JSON document
func NoticeJSON(notice *models.Notice) ([]byte, error) {
	data, err := json.Marshal(Envelope{Type: RecordNotice, Notice: notice})
	if err != nil {
		return nil, fmt.Errorf("failed to encode notice: %w", err)
	}
	return data, nil
}

// JSONRenderer writes one JSON envelope per line
type JSONRenderer struct{}

func (r *JSONRenderer) RenderReport(w io.Writer, report *models.Report) error {
	data, err := ReportJSON(report)
	if err != nil {
		return err
	}
	return writeLine(w, data)
}

func (r *JSONRenderer) RenderNotice(w io.Writer, notice *models.Notice) error {
	data, err := NoticeJSON(notice)
	if err != nil {
		return err
	}
	return writeLine(w, data)
}

func writeLine(w io.Writer, data []byte) error {
	_, err := w.Write(append(data, '\n'))
	return err
}

// YAMLRenderer writes one YAML document per record
type YAMLRenderer struct{}

func (r *YAMLRenderer) RenderReport(w io.Writer, report *models.Report) error {
	return writeYAML(w, Envelope{Type: RecordReport, Report: report})
}

func (r *YAMLRenderer) RenderNotice(w io.Writer, notice *models.Notice) error {
	return writeYAML(w, Envelope{Type: RecordNotice, Notice: notice})
}

func writeYAML(w io.Writer, env Envelope) error {
	data, err := yaml.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", env.Type, err)
	}
	_, err = w.Write(append([]byte("---\n"), data...))
	return err
}
