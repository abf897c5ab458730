package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/message"
)

var (
	publisherSuccessCounter = metrics.GetOrCreateCounter(`invoice_events_published_total{result="success"}`)
	publisherErrorCounter   = metrics.GetOrCreateCounter(`invoice_events_published_total{result="publish_failed"}`)
)

// MessageWriter is the part of *kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
}

func NewPublisher(writer MessageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, logger: logger}
}

// Publish writes one message per record, keyed by invoice ID so that events of
// the same invoice keep their order.
func (p *Publisher) Publish(ctx context.Context, eventType, deliveryID, storeID string, records []*invoice.Record) error {
	if len(records) == 0 {
		return nil
	}

	kafkaMessages := make([]kafka.Message, 0, len(records))
	for _, record := range records {
		event := message.InvoiceEvent{
			ID:         uuid.New(),
			Event:      eventType,
			DeliveryID: deliveryID,
			StoreID:    storeID,
			Invoice:    record,
			CreatedAt:  time.Now().UTC(),
		}

		value, err := json.Marshal(event)
		if err != nil {
			return errors.Wrapf(err, "encoding event for invoice %s", record.ID)
		}

		p.logger.DebugContext(ctx, "Preparing Kafka message for invoice", "invoiceId", record.ID, "eventId", event.ID)

		kafkaMessages = append(kafkaMessages, kafka.Message{
			Key:   []byte(record.ID),
			Value: value,
		})
	}

	if err := p.writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		p.logger.ErrorContext(ctx, "Error writing messages to Kafka", "error", err)
		publisherErrorCounter.Add(len(kafkaMessages))
		return errors.Wrap(err, "publishing invoice events")
	}

	publisherSuccessCounter.Add(len(kafkaMessages))
	return nil
}
