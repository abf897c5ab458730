package trigger

import (
	"context"
	"log/slog"

	"github.com/VictoriaMetrics/metrics"

	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/logging"
	"invoice-gateway/internal/webhook"
)

var (
	triggerRejectedCounter = metrics.GetOrCreateCounter(`invoice_trigger_total{result="rejected"}`)
	triggerErrorCounter    = metrics.GetOrCreateCounter(`invoice_trigger_total{result="error"}`)
	triggerSuccessCounter  = metrics.GetOrCreateCounter(`invoice_trigger_total{result="success"}`)
)

// UnverifiedError is returned for a delivery whose signature could not be
// verified. Err is the verifier's reason.
type UnverifiedError struct {
	Err error
}

func (e *UnverifiedError) Error() string {
	return "webhook could not be verified: " + e.Err.Error()
}

func (e *UnverifiedError) Unwrap() error {
	return e.Err
}

type Verifier interface {
	Verify(signature string, body []byte) error
}

type Fetcher interface {
	FetchByID(ctx context.Context, serverURL, storeID, invoiceID string) (*invoice.Record, error)
}

// Publisher forwards trigger results to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType, deliveryID, storeID string, records []*invoice.Record) error
}

// Request is an inbound webhook delivery for a store.
type Request struct {
	StoreID   string
	Signature string
	Body      []byte
}

type Trigger struct {
	fetcher   Fetcher
	verifier  Verifier
	publisher Publisher
	serverURL string
	logger    *slog.Logger
}

// New returns a Trigger. publisher may be nil, in which case results are only
// returned to the caller.
func New(fetcher Fetcher, verifier Verifier, publisher Publisher, serverURL string, logger *slog.Logger) *Trigger {
	return &Trigger{
		fetcher:   fetcher,
		verifier:  verifier,
		publisher: publisher,
		serverURL: serverURL,
		logger:    logger,
	}
}

// PerformForOne verifies the delivery, then fetches the invoice it refers to
// and returns it as the only element of the result.
func (t *Trigger) PerformForOne(ctx context.Context, req Request) ([]*invoice.Record, error) {
	if err := t.verifier.Verify(req.Signature, req.Body); err != nil {
		t.logger.WarnContext(ctx, "Rejected webhook delivery", "error", err)
		triggerRejectedCounter.Inc()
		return nil, &UnverifiedError{Err: err}
	}

	event, err := webhook.ParseEvent(req.Body)
	if err != nil {
		triggerErrorCounter.Inc()
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("deliveryId", event.DeliveryID))
	t.logger.InfoContext(ctx, "Received webhook delivery", "type", event.Type, "invoiceId", event.InvoiceID)

	record, err := t.fetcher.FetchByID(ctx, t.serverURL, req.StoreID, event.InvoiceID)
	if err != nil {
		triggerErrorCounter.Inc()
		return nil, err
	}

	records := []*invoice.Record{record}

	if t.publisher != nil {
		if err := t.publisher.Publish(ctx, event.Type, event.DeliveryID, req.StoreID, records); err != nil {
			t.logger.ErrorContext(ctx, "Error publishing invoice event", "error", err)
		}
	}

	triggerSuccessCounter.Inc()
	return records, nil
}
