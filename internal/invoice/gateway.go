package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"

	"invoice-gateway/internal/logging"
	"invoice-gateway/internal/transport"
)

const (
	opFetch     = "fetch"
	opCreate    = "create"
	opSetStatus = "set_status"
	opList      = "list"
)

// Transport performs a single HTTP call. Only failures to obtain a response
// are returned as errors; the status code is left to the caller.
type Transport interface {
	Request(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Gateway talks to the invoice endpoints of a Greenfield server and returns
// normalized records. It keeps no state between calls.
type Gateway struct {
	transport Transport
	logger    *slog.Logger
}

func NewGateway(transport Transport, logger *slog.Logger) *Gateway {
	return &Gateway{
		transport: transport,
		logger:    logger,
	}
}

// FetchByID returns a single invoice. Every status other than 200 is reported
// as a NotFound error.
func (g *Gateway) FetchByID(ctx context.Context, serverURL, storeID, invoiceID string) (*Record, error) {
	ctx = logging.AppendCtx(ctx, slog.String("storeId", storeID))
	ctx = logging.AppendCtx(ctx, slog.String("invoiceId", invoiceID))

	g.logger.InfoContext(ctx, "Fetching invoice")

	resp, err := g.transport.Request(ctx, transport.Request{
		URL:    invoiceURL(serverURL, storeID, invoiceID),
		Method: http.MethodGet,
	})
	if err != nil {
		countResult(opFetch, "error")
		return nil, errors.Wrap(err, "fetching invoice")
	}

	if resp.Status != http.StatusOK {
		g.logger.WarnContext(ctx, "Invoice could not be found", "status", resp.Status)
		countResult(opFetch, "not_found")
		return nil, notFound(resp.Status)
	}

	return g.normalizeResponse(ctx, opFetch, resp, storeID)
}

// Create opens a new invoice in the store.
func (g *Gateway) Create(ctx context.Context, serverURL, storeID string, req CreateRequest) (*Record, error) {
	ctx = logging.AppendCtx(ctx, slog.String("storeId", storeID))
	ctx = logging.AppendCtx(ctx, slog.String("orderId", req.OrderID))

	g.logger.InfoContext(ctx, "Creating invoice", "amount", req.Amount, "currency", req.Currency)

	resp, err := g.transport.Request(ctx, transport.Request{
		URL:    storeURL(serverURL, storeID) + "/invoices/",
		Method: http.MethodPost,
		Body:   req.body(),
	})
	if err != nil {
		countResult(opCreate, "error")
		return nil, errors.Wrap(err, "creating invoice")
	}

	if err := g.classify(ctx, opCreate, resp, createForbiddenMessage); err != nil {
		return nil, err
	}
	return g.normalizeResponse(ctx, opCreate, resp, storeID)
}

// SetStatus marks an invoice with newStatus, e.g. "Invalid" or "Settled".
func (g *Gateway) SetStatus(ctx context.Context, serverURL, storeID, invoiceID, newStatus string) (*Record, error) {
	ctx = logging.AppendCtx(ctx, slog.String("storeId", storeID))
	ctx = logging.AppendCtx(ctx, slog.String("invoiceId", invoiceID))

	g.logger.InfoContext(ctx, "Marking invoice status", "status", newStatus)

	resp, err := g.transport.Request(ctx, transport.Request{
		URL:    invoiceURL(serverURL, storeID, invoiceID) + "/status",
		Method: http.MethodPost,
		Body:   statusBody{Status: newStatus},
	})
	if err != nil {
		countResult(opSetStatus, "error")
		return nil, errors.Wrap(err, "marking invoice status")
	}

	if err := g.classify(ctx, opSetStatus, resp, statusForbiddenMessage); err != nil {
		return nil, err
	}
	return g.normalizeResponse(ctx, opSetStatus, resp, storeID)
}

// ListRecent returns the invoices of a store in the order the server sends
// them. It is meant for sampling, so the status code is not inspected.
func (g *Gateway) ListRecent(ctx context.Context, serverURL, storeID string) ([]*Record, error) {
	ctx = logging.AppendCtx(ctx, slog.String("storeId", storeID))

	g.logger.InfoContext(ctx, "Listing invoices")

	resp, err := g.transport.Request(ctx, transport.Request{
		URL:    storeURL(serverURL, storeID) + "/invoices",
		Method: http.MethodGet,
	})
	if err != nil {
		countResult(opList, "error")
		return nil, errors.Wrap(err, "listing invoices")
	}

	var wires []map[string]json.RawMessage
	if err := resp.JSON(&wires); err != nil {
		g.logger.ErrorContext(ctx, "Error decoding invoices", "error", err)
		countResult(opList, "error")
		return nil, err
	}

	records := make([]*Record, 0, len(wires))
	for _, wire := range wires {
		records = append(records, Normalize(wire, storeID))
	}

	g.logger.InfoContext(ctx, "Listed invoices", "count", len(records))
	countResult(opList, "success")
	return records, nil
}

// classify turns a non-200 response of a write operation into an error.
func (g *Gateway) classify(ctx context.Context, op string, resp *transport.Response, forbiddenMessage string) error {
	switch resp.Status {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		g.logger.WarnContext(ctx, "Request forbidden", "status", resp.Status)
		countResult(op, "forbidden")
		return forbidden(forbiddenMessage, resp.Status)
	default:
		e := invalidData(resp.Body, resp.Status)
		g.logger.WarnContext(ctx, "Request rejected", "status", resp.Status, "message", e.Message)
		countResult(op, "invalid_data")
		return e
	}
}

func (g *Gateway) normalizeResponse(ctx context.Context, op string, resp *transport.Response, storeID string) (*Record, error) {
	record, err := NormalizeJSON(resp.Body, storeID)
	if err != nil {
		g.logger.ErrorContext(ctx, "Error decoding invoice", "error", err)
		countResult(op, "error")
		return nil, errors.Wrap(err, "decoding invoice")
	}

	countResult(op, "success")
	return record, nil
}

func storeURL(serverURL, storeID string) string {
	return strings.TrimRight(serverURL, "/") + "/api/v1/stores/" + url.PathEscape(storeID)
}

func invoiceURL(serverURL, storeID, invoiceID string) string {
	return storeURL(serverURL, storeID) + "/invoices/" + url.PathEscape(invoiceID)
}

func countResult(op, result string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`invoice_gateway_total{operation=%q,result=%q}`, op, result)).Inc()
}
