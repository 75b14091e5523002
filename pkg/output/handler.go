package output

import (
	"context"

	"github.com/opscart/health-monitor/pkg/models"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Handler receives every report and notice the monitor emits
type Handler interface {
	HandleReport(ctx context.Context, report *models.Report) error
	HandleNotice(ctx context.Context, notice *models.Notice) error
	Name() string
}

// MultiHandler fans records out to several handlers.
// Every handler is called even if an earlier one fails.
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler creates a fan-out handler
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Name() string {
	return "multi"
}

func (m *MultiHandler) HandleReport(ctx context.Context, report *models.Report) error {
	var errs []error
	for _, h := range m.handlers {
		if err := h.HandleReport(ctx, report); err != nil {
			errs = append(errs, &HandlerError{Handler: h.Name(), Err: err})
		}
	}
	return utilerrors.NewAggregate(errs)
}

func (m *MultiHandler) HandleNotice(ctx context.Context, notice *models.Notice) error {
	var errs []error
	for _, h := range m.handlers {
		if err := h.HandleNotice(ctx, notice); err != nil {
			errs = append(errs, &HandlerError{Handler: h.Name(), Err: err})
		}
	}
	return utilerrors.NewAggregate(errs)
}

// HandlerError identifies the handler that failed
type HandlerError struct {
	Handler string
	Err     error
}

func (e *HandlerError) Error() string {
	return e.Handler + ": " + e.Err.Error()
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
