package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"invoice-gateway/internal/config"
)

const (
	DefaultBatchSize    = 1
	DefaultBatchTimeout = 100
)

func NewWriter(cfg config.Kafka) *kafka.Writer {
	batchSize := cfg.Writer.BatchSize
	if batchSize <= 0 {
		batchSize = config.GetInt("KAFKA_WRITER_BATCH_SIZE", DefaultBatchSize)
	}
	batchTimeout := cfg.Writer.BatchTimeoutMs
	if batchTimeout <= 0 {
		batchTimeout = config.GetInt("KAFKA_WRITER_BATCH_TIMEOUT", DefaultBatchTimeout)
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(cfg.Broker.URL, ",")...),
		Topic:                  cfg.Topic.InvoiceEvents,
		Balancer:               &kafka.ReferenceHash{},
		BatchSize:              batchSize,
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           time.Duration(batchTimeout) * time.Millisecond,
		Async:                  false,
		AllowAutoTopicCreation: false,
	}
}
