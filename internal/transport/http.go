package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"

	"invoice-gateway/internal/config"
)

const (
	defaultTimeoutMs = 10_000
	contentType      = "application/json"
)

var (
	requestDurationHistogram = metrics.GetOrCreateHistogram(`greenfield_request_duration_milliseconds`)
	transportErrorCounter    = metrics.GetOrCreateCounter(`greenfield_requests_total{result="transport_error"}`)
)

// Request describes a single call against the Greenfield API.
type Request struct {
	URL    string
	Method string
	Params url.Values
	Body   any
}

// Response is the raw outcome of a call. Status is the HTTP status code and Body
// holds the undecoded JSON payload.
type Response struct {
	Status int
	Body   []byte
}

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(err, "decoding response body with status %d", r.Status)
	}
	return nil
}

type HTTP struct {
	client *http.Client
	apiKey string
	logger *slog.Logger
}

func NewHTTP(cfg config.Greenfield, logger *slog.Logger) *HTTP {
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = config.GetInt("GREENFIELD_TIMEOUT_MS", defaultTimeoutMs)
	}

	return &HTTP{
		client: &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// Request issues req and returns the response whatever its status code. Only
// failures to reach the server or read its answer are returned as errors.
func (t *HTTP) Request(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()
	defer func() {
		requestDurationHistogram.Update(float64(time.Since(startTime).Milliseconds()))
	}()

	target, err := withParams(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil && req.Method != http.MethodGet {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		t.logger.DebugContext(ctx, "Request payload", "payload", string(payload))
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	httpReq.Header.Set("Accept", contentType)
	if body != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if t.apiKey != "" {
		httpReq.Header.Set("Authorization", "token "+t.apiKey)
	}

	t.logger.InfoContext(ctx, "Sending request", "method", req.Method, "url", target)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.ErrorContext(ctx, "Error sending request", "error", err)
		transportErrorCounter.Inc()
		return nil, errors.Wrapf(err, "%s %s", req.Method, target)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.ErrorContext(ctx, "Error reading response body", "error", err)
		transportErrorCounter.Inc()
		return nil, errors.Wrap(err, "reading response body")
	}

	t.logger.InfoContext(ctx, "Received response", "status", resp.StatusCode)
	t.logger.DebugContext(ctx, "Response body", "body", string(respBody))
	metrics.GetOrCreateCounter(fmt.Sprintf(`greenfield_requests_total{result="%dxx"}`, resp.StatusCode/100)).Inc()

	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}

func withParams(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "parsing url %q", rawURL)
	}
	query := u.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
