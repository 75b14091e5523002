package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/reporter"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

func testReport() *models.Report {
	return &models.Report{
		ID:          "r-1",
		Environment: "production",
		Timestamp:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sample:      models.HealthSample{CPU: 81, Memory: 20, Disk: 30},
		MaxUsage:    81,
		Threshold:   80,
		Status:      models.StatusWarning,
	}
}

type recordingHandler struct {
	name    string
	err     error
	reports int
	notices int
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) HandleReport(ctx context.Context, report *models.Report) error {
	h.reports++
	return h.err
}

func (h *recordingHandler) HandleNotice(ctx context.Context, notice *models.Notice) error {
	h.notices++
	return h.err
}

type fakeChannel struct {
	exchange string
	key      string
	msgs     []amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msgs = append(f.msgs, msg)
	return f.err
}

type fakeRedis struct {
	channel  string
	messages [][]byte
	err      error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.messages = append(f.messages, message.([]byte))
	return redis.NewIntResult(1, f.err)
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewConsoleHandler(&buf, reporter.FormatText)
	require.NoError(t, err)

	assert.Equal(t, "console", h.Name())
	assert.Equal(t, reporter.FormatText, h.Format())

	require.NoError(t, h.HandleReport(context.Background(), testReport()))
	assert.Contains(t, buf.String(), "System Status: WARNING")

	require.NoError(t, h.HandleNotice(context.Background(), &models.Notice{Kind: models.NoticeRetrain, Message: "Model updated successfully"}))
	assert.Contains(t, buf.String(), "Retraining on new data")
}

func TestConsoleHandler_UnknownFormat(t *testing.T) {
	_, err := NewConsoleHandler(&bytes.Buffer{}, reporter.Format("xml"))
	assert.Error(t, err)
}

func TestMultiHandler_CallsEveryHandler(t *testing.T) {
	failing := &recordingHandler{name: "broken", err: errors.New("boom")}
	healthy := &recordingHandler{name: "ok"}

	m := NewMultiHandler(failing, healthy)

	err := m.HandleReport(context.Background(), testReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")

	agg, isAgg := err.(utilerrors.Aggregate)
	require.True(t, isAgg)
	require.Len(t, agg.Errors(), 1)

	var handlerErr *HandlerError
	require.True(t, errors.As(agg.Errors()[0], &handlerErr))
	assert.Equal(t, "broken", handlerErr.Handler)

	assert.Equal(t, 1, failing.reports)
	assert.Equal(t, 1, healthy.reports)

	require.Error(t, m.HandleNotice(context.Background(), &models.Notice{}))
	assert.Equal(t, 1, healthy.notices)
}

func TestMultiHandler_NoErrors(t *testing.T) {
	m := NewMultiHandler(&recordingHandler{name: "a"}, &recordingHandler{name: "b"})

	assert.NoError(t, m.HandleReport(context.Background(), testReport()))
	assert.NoError(t, m.HandleNotice(context.Background(), &models.Notice{}))
}

func TestAMQPHandler_PublishesReport(t *testing.T) {
	ch := &fakeChannel{}
	h := NewAMQPHandler(ch, "health_reports")

	require.NoError(t, h.HandleReport(context.Background(), testReport()))
	require.Len(t, ch.msgs, 1)

	msg := ch.msgs[0]
	assert.Equal(t, "", ch.exchange)
	assert.Equal(t, "health_reports", ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "report", msg.Type)
	assert.Equal(t, "r-1", msg.MessageId)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var env reporter.Envelope
	require.NoError(t, json.Unmarshal(msg.Body, &env))
	assert.Equal(t, models.StatusWarning, env.Report.Status)

	assert.NoError(t, h.Close())
}

func TestAMQPHandler_PublishError(t *testing.T) {
	h := NewAMQPHandler(&fakeChannel{err: errors.New("channel closed")}, "q")

	err := h.HandleNotice(context.Background(), &models.Notice{Kind: models.NoticeRetrain})
	assert.ErrorContains(t, err, "failed to publish notice to q: channel closed")
}

func TestRedisHandler_Publishes(t *testing.T) {
	client := &fakeRedis{}
	h := NewRedisHandler(client, "health-reports")

	require.NoError(t, h.HandleReport(context.Background(), testReport()))
	require.NoError(t, h.HandleNotice(context.Background(), &models.Notice{Kind: models.NoticeStartup}))

	assert.Equal(t, "health-reports", client.channel)
	require.Len(t, client.messages, 2)

	var env reporter.Envelope
	require.NoError(t, json.Unmarshal(client.messages[1], &env))
	assert.Equal(t, reporter.RecordNotice, env.Type)
	assert.Equal(t, models.NoticeStartup, env.Notice.Kind)
}

func TestRedisHandler_PublishError(t *testing.T) {
	h := NewRedisHandler(&fakeRedis{err: errors.New("connection refused")}, "c")

	err := h.HandleReport(context.Background(), testReport())
	assert.ErrorContains(t, err, "connection refused")
}
