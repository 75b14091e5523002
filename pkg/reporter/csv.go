package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/opscart/health-monitor/pkg/models"
)

var csvHeader = []string{
	"Record",
	"ID",
	"Timestamp",
	"Environment",
	"CPU (%)",
	"Memory (%)",
	"Disk (%)",
	"Max Usage (%)",
	"Threshold (%)",
	"Status",
	"Providers",
	"Forecast CPU (%)",
	"Forecast Memory (%)",
	"Forecast Traffic (req/s)",
	"Confidence (%)",
	"Predictive Alert",
	"Message",
}

// CSVRenderer writes one row per record, preceded once by a header row
type CSVRenderer struct {
	mu            sync.Mutex
	headerWritten bool
}

func (r *CSVRenderer) RenderReport(w io.Writer, report *models.Report) error {
	row := []string{
		RecordReport,
		report.ID,
		formatTimestamp(report.Timestamp),
		report.Environment,
		percent(report.Sample.CPU),
		percent(report.Sample.Memory),
		percent(report.Sample.Disk),
		percent(report.MaxUsage),
		percent(report.Threshold),
		string(report.Status),
		providerSummary(report.Providers),
		"", "", "", "", "",
		"",
	}

	if f := report.Forecast; f != nil {
		row[11] = percent(f.Sample.CPU)
		row[12] = percent(f.Sample.Memory)
		row[13] = percent(f.Sample.Traffic)
		row[14] = percent(f.Sample.Confidence)
		row[15] = strconv.FormatBool(f.PredictiveAlert)
	}

	return r.write(w, row)
}

func (r *CSVRenderer) RenderNotice(w io.Writer, notice *models.Notice) error {
	row := make([]string, len(csvHeader))
	row[0] = RecordNotice + ":" + string(notice.Kind)
	row[2] = formatTimestamp(notice.Timestamp)
	row[3] = notice.Environment
	row[16] = notice.Message
	return r.write(w, row)
}

func (r *CSVRenderer) write(w io.Writer, row []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cw := csv.NewWriter(w)
	if !r.headerWritten {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		r.headerWritten = true
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// providerSummary renders providers as name:instances:load:verdict joined by ';'
func providerSummary(providers []models.ProviderStatus) string {
	parts := make([]string, 0, len(providers))
	for _, p := range providers {
		parts = append(parts, fmt.Sprintf("%s:%d:%s:%s", p.Name, p.Instances, percent(p.Load), p.Verdict))
	}
	return strings.Join(parts, ";")
}
