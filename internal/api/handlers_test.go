package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/transport"
	"invoice-gateway/internal/trigger"
	"invoice-gateway/internal/webhook"
)

const (
	serverURL     = "https://btcpay.example.com"
	webhookSecret = "hook-secret"
	wireJSON      = `{"id":"inv1","amount":"6.15","currency":"EUR","createdTime":1625746644,"expirationTime":1625747544,"monitoringExpiration":1625750244}`
)

type stubTransport struct {
	status int
	body   string
	err    error
	last   transport.Request
}

func (s *stubTransport) Request(_ context.Context, req transport.Request) (*transport.Response, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &transport.Response{Status: s.status, Body: []byte(s.body)}, nil
}

type HandlerTestSuite struct {
	suite.Suite
	transport *stubTransport
	router    *gin.Engine
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *HandlerTestSuite) SetupTest() {
	s.transport = &stubTransport{status: http.StatusOK, body: wireJSON}

	logger := slog.Default()
	gateway := invoice.NewGateway(s.transport, logger)
	trig := trigger.New(gateway, webhook.NewHMACVerifier(webhookSecret), nil, serverURL, logger)
	s.router = SetupRouter(NewHandler(gateway, trig, serverURL, logger), logger)
}

func (s *HandlerTestSuite) do(method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), v))
}

func (s *HandlerTestSuite) TestLiveness() {
	w := s.do(http.MethodGet, "/liveness", nil, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.NotEmpty(s.T(), w.Header().Get(requestIDHeader))
}

func (s *HandlerTestSuite) TestGetInvoice() {
	w := s.do(http.MethodGet, "/api/v1/stores/store1/invoices/inv1", nil, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var out map[string]any
	s.decode(w, &out)
	assert.Equal(s.T(), "inv1", out["id"])
	assert.Equal(s.T(), "store1", out["storeId"])
	assert.Equal(s.T(), 6.15, out["amount"])
	assert.Equal(s.T(), "2021-07-08T12:17:24.000Z", out["createdTime"])
	assert.Equal(s.T(), serverURL+"/api/v1/stores/store1/invoices/inv1", s.transport.last.URL)
}

func (s *HandlerTestSuite) TestGetInvoice_NotFound() {
	s.transport.status = http.StatusInternalServerError

	w := s.do(http.MethodGet, "/api/v1/stores/store1/invoices/inv1", nil, nil)
	require.Equal(s.T(), http.StatusNotFound, w.Code)

	var out invoice.Error
	s.decode(w, &out)
	assert.Equal(s.T(), invoice.KindNotFound, out.Kind)
	assert.Equal(s.T(), http.StatusInternalServerError, out.Status)
}

func (s *HandlerTestSuite) TestListInvoices() {
	s.transport.body = "[" + wireJSON + "," + wireJSON + "]"

	w := s.do(http.MethodGet, "/api/v1/stores/store1/invoices", nil, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var out []map[string]any
	s.decode(w, &out)
	assert.Len(s.T(), out, 2)
}

func (s *HandlerTestSuite) TestCreateInvoice() {
	tests := []struct {
		name           string
		status         int
		body           string
		expectedStatus int
		expectedKind   invoice.Kind
	}{
		{name: "Success", status: http.StatusOK, body: wireJSON, expectedStatus: http.StatusOK},
		{name: "Forbidden", status: http.StatusForbidden, body: `{}`, expectedStatus: http.StatusForbidden, expectedKind: invoice.KindForbidden},
		{name: "InvalidData", status: http.StatusBadRequest, body: `[{"message":"bad amount"}]`, expectedStatus: http.StatusBadRequest, expectedKind: invoice.KindInvalidData},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.transport.status = tt.status
			s.transport.body = tt.body

			w := s.do(http.MethodPost, "/api/v1/stores/store1/invoices", []byte(`{"amount":"6.15","currency":"EUR","orderId":"A-1"}`), nil)
			assert.Equal(s.T(), tt.expectedStatus, w.Code)

			if tt.expectedKind != "" {
				var out invoice.Error
				s.decode(w, &out)
				assert.Equal(s.T(), tt.expectedKind, out.Kind)
				assert.Equal(s.T(), tt.status, out.Status)
			}
		})
	}
}

func (s *HandlerTestSuite) TestCreateInvoice_NumericAmount() {
	w := s.do(http.MethodPost, "/api/v1/stores/store1/invoices", []byte(`{"amount":6.15,"currency":"EUR"}`), nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	body, err := json.Marshal(s.transport.last.Body)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), string(body), `"amount":"6.15"`)
}

func (s *HandlerTestSuite) TestCreateInvoice_BadRequest() {
	w := s.do(http.MethodPost, "/api/v1/stores/store1/invoices", []byte(`{"amount":`), nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestSetInvoiceStatus() {
	w := s.do(http.MethodPost, "/api/v1/stores/store1/invoices/inv1/status", []byte(`{"status":"Invalid"}`), nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), serverURL+"/api/v1/stores/store1/invoices/inv1/status", s.transport.last.URL)

	w = s.do(http.MethodPost, "/api/v1/stores/store1/invoices/inv1/status", []byte(`{}`), nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestTransportError() {
	s.transport.err = errors.New("connection refused")

	w := s.do(http.MethodGet, "/api/v1/stores/store1/invoices/inv1", nil, nil)
	assert.Equal(s.T(), http.StatusBadGateway, w.Code)
	assert.Contains(s.T(), w.Body.String(), "connection refused")
}

func (s *HandlerTestSuite) TestInvoiceWebhook() {
	payload := []byte(`{"deliveryId":"d1","type":"InvoiceSettled","storeId":"store1","invoiceId":"inv1"}`)

	w := s.do(http.MethodPost, "/hooks/stores/store1/invoices", payload, map[string]string{
		webhook.SignatureHeader: webhook.Sign(webhookSecret, payload),
	})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var out []map[string]any
	s.decode(w, &out)
	require.Len(s.T(), out, 1)
	assert.Equal(s.T(), "inv1", out[0]["id"])
}

func (s *HandlerTestSuite) TestInvoiceWebhook_Unverified() {
	payload := []byte(`{"invoiceId":"inv1"}`)

	w := s.do(http.MethodPost, "/hooks/stores/store1/invoices", payload, map[string]string{
		webhook.SignatureHeader: "sha256=00",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Empty(s.T(), s.transport.last.URL)
}

func (s *HandlerTestSuite) TestInvoiceWebhook_Malformed() {
	payload := []byte(`{"deliveryId":`)

	w := s.do(http.MethodPost, "/hooks/stores/store1/invoices", payload, map[string]string{
		webhook.SignatureHeader: webhook.Sign(webhookSecret, payload),
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestOutputFields() {
	w := s.do(http.MethodGet, "/api/v1/invoice/fields", nil, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var out []invoice.OutputField
	s.decode(w, &out)
	assert.Equal(s.T(), invoice.OutputFields, out)
}

func (s *HandlerTestSuite) TestSample() {
	w := s.do(http.MethodGet, "/api/v1/invoice/sample", nil, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), `"status":"Expired"`)
}

func (s *HandlerTestSuite) TestMetrics() {
	s.do(http.MethodGet, "/api/v1/stores/store1/invoices/inv1", nil, nil)

	w := s.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.True(s.T(), strings.Contains(w.Body.String(), "invoice_gateway_total"))
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
