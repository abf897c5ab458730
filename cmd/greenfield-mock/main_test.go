package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"invoice-gateway/internal/config"
	"invoice-gateway/internal/invoice"
	"invoice-gateway/internal/transport"
)

const (
	apiKey  = "test-key"
	storeID = "store1"
)

type MockTestSuite struct {
	suite.Suite
	server  *httptest.Server
	gateway *invoice.Gateway
}

func (s *MockTestSuite) SetupTest() {
	created := time.Date(2021, time.July, 8, 12, 17, 24, 0, time.UTC)
	store := newInvoiceStore("http://mock.local", func() time.Time { return created })
	s.server = httptest.NewServer(loggingMiddleware(slog.Default(), tokenAuth(apiKey, newMux(store))))

	cfg := config.Greenfield{ServerURL: s.server.URL, APIKey: apiKey, StoreID: storeID, TimeoutMs: 2000}
	s.gateway = invoice.NewGateway(transport.NewHTTP(cfg, slog.Default()), slog.Default())
}

func (s *MockTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *MockTestSuite) TestCreateFetchAndMark() {
	ctx := context.Background()

	created, err := s.gateway.Create(ctx, s.server.URL, storeID, invoice.CreateRequest{
		Amount:     "6.15",
		Currency:   "eur",
		OrderID:    "A-1",
		BuyerEmail: "buyer@example.com",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 6.15, created.Amount)
	assert.Equal(s.T(), "EUR", created.Currency)
	assert.Equal(s.T(), storeID, created.StoreID)
	assert.Equal(s.T(), "New", created.Status)
	assert.Equal(s.T(), "2021-07-08T12:17:24.000Z", created.CreatedTime)
	assert.Equal(s.T(), "2021-07-08T12:32:24.000Z", created.ExpirationTime)
	metadata, err := created.MetadataFields()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "A-1", metadata["orderId"])

	fetched, err := s.gateway.FetchByID(ctx, s.server.URL, storeID, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, fetched.ID)

	marked, err := s.gateway.SetStatus(ctx, s.server.URL, storeID, created.ID, "Invalid")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Invalid", marked.Status)
	assert.Equal(s.T(), "Marked", marked.AdditionalStatus)

	listed, err := s.gateway.ListRecent(ctx, s.server.URL, storeID)
	require.NoError(s.T(), err)
	require.Len(s.T(), listed, 1)
	assert.Equal(s.T(), created.ID, listed[0].ID)
}

func (s *MockTestSuite) TestValidationErrors() {
	_, err := s.gateway.Create(context.Background(), s.server.URL, storeID, invoice.CreateRequest{Amount: "abc", Currency: "E"})

	assert.True(s.T(), invoice.IsKind(err, invoice.KindInvalidData))
	assert.Equal(s.T(), "Error: Amount should be a decimal number, Currency is invalid, ", err.Error())
}

func (s *MockTestSuite) TestSetStatus_Rejected() {
	ctx := context.Background()
	created, err := s.gateway.Create(ctx, s.server.URL, storeID, invoice.CreateRequest{Amount: "1", Currency: "EUR"})
	require.NoError(s.T(), err)

	_, err = s.gateway.SetStatus(ctx, s.server.URL, storeID, created.ID, "Expired")
	assert.True(s.T(), invoice.IsKind(err, invoice.KindInvalidData))
}

func (s *MockTestSuite) TestUnknownInvoice() {
	_, err := s.gateway.FetchByID(context.Background(), s.server.URL, storeID, "missing")

	e, ok := invoice.AsError(err)
	require.True(s.T(), ok)
	assert.Equal(s.T(), invoice.KindNotFound, e.Kind)
	assert.Equal(s.T(), http.StatusNotFound, e.Status)
}

func (s *MockTestSuite) TestWrongAPIKey() {
	cfg := config.Greenfield{ServerURL: s.server.URL, APIKey: "other", TimeoutMs: 2000}
	gateway := invoice.NewGateway(transport.NewHTTP(cfg, slog.Default()), slog.Default())

	_, err := gateway.Create(context.Background(), s.server.URL, storeID, invoice.CreateRequest{Amount: "1", Currency: "EUR"})
	assert.True(s.T(), invoice.IsKind(err, invoice.KindForbidden))
}

func TestMockTestSuite(t *testing.T) {
	suite.Run(t, new(MockTestSuite))
}
