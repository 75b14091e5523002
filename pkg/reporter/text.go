package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/opscart/health-monitor/pkg/models"
)

const separator = "================================================"

// TextRenderer writes human-readable reports
type TextRenderer struct{}

func (r *TextRenderer) RenderReport(w io.Writer, report *models.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n[%s] === SYSTEM HEALTH CHECK ===\n", formatTimestamp(report.Timestamp))
	if report.Debug {
		b.WriteString("Detailed debug mode enabled...\n")
	}

	fmt.Fprintf(&b, "   CPU: %s%%\n", percent(report.Sample.CPU))
	fmt.Fprintf(&b, "   Memory: %s%%\n", percent(report.Sample.Memory))
	fmt.Fprintf(&b, "   Disk: %s%% used\n", percent(report.Sample.Disk))

	for _, p := range report.Providers {
		fmt.Fprintf(&b, "\n%s Cloud Status (%s):\n", strings.ToUpper(p.Name), p.Region)
		fmt.Fprintf(&b, "   Instances: %d\n", p.Instances)
		fmt.Fprintf(&b, "   Load: %s%%\n", percent(p.Load))
		fmt.Fprintf(&b, "   Health: %s\n", p.Verdict)
	}

	if len(report.Analysis) > 0 {
		b.WriteString("\nAI Analysis:\n")
		for _, line := range report.Analysis {
			fmt.Fprintf(&b, "   %s\n", line)
		}
	}

	if f := report.Forecast; f != nil {
		b.WriteString("\nAI Prediction Engine:\n")
		fmt.Fprintf(&b, "Predicted metrics in %ds:\n", f.WindowSeconds)
		fmt.Fprintf(&b, "   CPU: %s%% (confidence: %s%%)\n", percent(f.Sample.CPU), percent(f.Sample.Confidence))
		fmt.Fprintf(&b, "   Memory: %s%% (confidence: %s%%)\n", percent(f.Sample.Memory), percent(f.Sample.Confidence))
		fmt.Fprintf(&b, "   Traffic: %s req/s (confidence: %s%%)\n", percent(f.Sample.Traffic), percent(f.Sample.Confidence))
		if f.PredictiveAlert {
			b.WriteString("PREDICTIVE ALERT: High CPU expected - Pre-scaling initiated\n")
		}
	}

	if report.Status == models.StatusWarning {
		fmt.Fprintf(&b, "\nSystem Status: %s - High resource usage\n", report.Status)
	} else {
		fmt.Fprintf(&b, "\nSystem Status: %s\n", report.Status)
	}
	b.WriteString(separator + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *TextRenderer) RenderNotice(w io.Writer, notice *models.Notice) error {
	var b strings.Builder
	d := notice.Details

	switch notice.Kind {
	case models.NoticeStartup:
		b.WriteString(separator + "\n")
		b.WriteString(notice.Message + "\n")
		fmt.Fprintf(&b, "Environment: %s\n", notice.Environment)
		fmt.Fprintf(&b, "AI Monitoring: %s\n", d[models.DetailAIMonitoring])
		b.WriteString(separator + "\n")
		fmt.Fprintf(&b, "\nMonitoring interval: %s\n", d[models.DetailInterval])
		fmt.Fprintf(&b, "Alert threshold: %s%%\n", d[models.DetailAlertThreshold])
		if providers := d[models.DetailCloudProviders]; providers != "" {
			fmt.Fprintf(&b, "Cloud providers: %s\n", providers)
		}
	case models.NoticeModelLoaded:
		b.WriteString("Loading AI modules...\n")
		fmt.Fprintf(&b, "Model loaded: %s\n", d[models.DetailModelPath])
		b.WriteString(notice.Message + "\n")
	case models.NoticeRetrain:
		fmt.Fprintf(&b, "\n[%s] AI Model: Retraining on new data...\n", formatTimestamp(notice.Timestamp))
		fmt.Fprintf(&b, "   Training accuracy: %s%%\n", d[models.DetailTrainingAccuracy])
		fmt.Fprintf(&b, "   %s\n", notice.Message)
	case models.NoticeCollectionError:
		fmt.Fprintf(&b, "\n[%s] [WARN] %s\n", formatTimestamp(notice.Timestamp), notice.Message)
	default:
		fmt.Fprintf(&b, "[%s] [%s] %s\n", formatTimestamp(notice.Timestamp), notice.Kind, notice.Message)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
