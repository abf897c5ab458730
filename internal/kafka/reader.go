package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/segmentio/kafka-go"

	"invoice-gateway/internal/config"
	"invoice-gateway/internal/message"
)

type Metrics struct {
	ReadErrorCounter      *metrics.Counter
	UnmarshalErrorCounter *metrics.Counter
	ProcessErrorCounter   *metrics.Counter
	SuccessCounter        *metrics.Counter
}

var invoiceEventMetrics = Metrics{
	ReadErrorCounter:      metrics.GetOrCreateCounter(`kafka_reader_total{result="read_error",type="invoice_event"}`),
	UnmarshalErrorCounter: metrics.GetOrCreateCounter(`kafka_reader_total{result="unmarshal_error",type="invoice_event"}`),
	ProcessErrorCounter:   metrics.GetOrCreateCounter(`kafka_reader_total{result="process_error",type="invoice_event"}`),
	SuccessCounter:        metrics.GetOrCreateCounter(`kafka_reader_total{result="success",type="invoice_event"}`),
}

// MessageReader is the part of *kafka.Reader used by ReadInvoiceEvents.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func NewReader(cfg config.Kafka, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: strings.Split(cfg.Broker.URL, ","),
		GroupID: groupID,
		Topic:   cfg.Topic.InvoiceEvents,
	})
}

// ReadInvoiceEvents blocks, handing every decoded event to process, until ctx
// is cancelled. Undecodable messages and process failures are logged and
// skipped.
func ReadInvoiceEvents(ctx context.Context, reader MessageReader, process func(context.Context, message.InvoiceEvent) error, logger *slog.Logger) error {
	return readMessages(ctx, reader, logger, func(ctx context.Context, value []byte) error {
		var e message.InvoiceEvent
		if err := json.Unmarshal(value, &e); err != nil {
			logger.ErrorContext(ctx, "Error unmarshalling message", "error", err)
			invoiceEventMetrics.UnmarshalErrorCounter.Inc()
			return nil
		}
		return process(ctx, e)
	}, invoiceEventMetrics)
}

func readMessages(ctx context.Context, reader MessageReader, logger *slog.Logger, process func(context.Context, []byte) error, kafkaMetrics Metrics) error {
	for {
		logger.DebugContext(ctx, "Waiting for messages from Kafka...")
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.ErrorContext(ctx, "Error reading message", "error", err)
			kafkaMetrics.ReadErrorCounter.Inc()
			continue
		}
		logger.DebugContext(ctx, "Received message", "topic", m.Topic, "key", string(m.Key))

		if err := process(ctx, m.Value); err != nil {
			logger.ErrorContext(ctx, "Error processing message", "error", err)
			kafkaMetrics.ProcessErrorCounter.Inc()
			continue
		}
		kafkaMetrics.SuccessCounter.Inc()
	}
}
