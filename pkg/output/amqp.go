package output

import (
	"context"
	"fmt"
	"time"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/reporter"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the handler uses
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPHandler publishes JSON envelopes to a queue on the default exchange
type AMQPHandler struct {
	ch    amqpChannel
	queue string
	close func() error
}

// NewAMQPHandler wraps an already open channel
func NewAMQPHandler(ch amqpChannel, queue string) *AMQPHandler {
	return &AMQPHandler{
		ch:    ch,
		queue: queue,
		close: func() error { return nil },
	}
}

// DialAMQP connects to the broker and declares a durable queue
func DialAMQP(url, queue string) (*AMQPHandler, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	h := NewAMQPHandler(ch, queue)
	h.close = func() error {
		ch.Close()
		return conn.Close()
	}
	return h, nil
}

func (a *AMQPHandler) Name() string {
	return "amqp"
}

func (a *AMQPHandler) HandleReport(ctx context.Context, report *models.Report) error {
	body, err := reporter.ReportJSON(report)
	if err != nil {
		return err
	}
	return a.publish(ctx, reporter.RecordReport, report.ID, body, report.Timestamp)
}

func (a *AMQPHandler) HandleNotice(ctx context.Context, notice *models.Notice) error {
	body, err := reporter.NoticeJSON(notice)
	if err != nil {
		return err
	}
	return a.publish(ctx, reporter.RecordNotice, "", body, notice.Timestamp)
}

func (a *AMQPHandler) publish(ctx context.Context, recordType, id string, body []byte, ts time.Time) error {
	err := a.ch.PublishWithContext(ctx,
		"",      // exchange
		a.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         recordType,
			MessageId:    id,
			Timestamp:    ts,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", recordType, a.queue, err)
	}
	return nil
}

// Close releases the channel and connection opened by DialAMQP
func (a *AMQPHandler) Close() error {
	return a.close()
}
