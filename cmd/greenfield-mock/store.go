package main

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	expirationMinutes = 15
	monitoringMinutes = 60
)

type validationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type createBody struct {
	Amount   string         `json:"amount"`
	Currency string         `json:"currency"`
	Metadata map[string]any `json:"metadata"`
}

type mockCheckout struct {
	SpeedPolicy           string   `json:"speedPolicy"`
	PaymentMethods        []string `json:"paymentMethods"`
	ExpirationMinutes     int      `json:"expirationMinutes"`
	MonitoringMinutes     int      `json:"monitoringMinutes"`
	PaymentTolerance      float64  `json:"paymentTolerance"`
	RedirectURL           *string  `json:"redirectURL"`
	RedirectAutomatically bool     `json:"redirectAutomatically"`
	DefaultLanguage       *string  `json:"defaultLanguage"`
}

// mockInvoice mirrors the Greenfield invoice payload, timestamps in Unix seconds.
type mockInvoice struct {
	ID                   string         `json:"id"`
	StoreID              string         `json:"storeId"`
	Amount               string         `json:"amount"`
	Currency             string         `json:"currency"`
	Type                 string         `json:"type"`
	CheckoutLink         string         `json:"checkoutLink"`
	Status               string         `json:"status"`
	AdditionalStatus     string         `json:"additionalStatus"`
	MonitoringExpiration int64          `json:"monitoringExpiration"`
	ExpirationTime       int64          `json:"expirationTime"`
	CreatedTime          int64          `json:"createdTime"`
	Archived             bool           `json:"archived"`
	Metadata             map[string]any `json:"metadata"`
	Checkout             mockCheckout   `json:"checkout"`
}

// snapshot copies the invoice so it can be encoded without holding the store
// lock. Metadata and payment methods are never changed after creation.
func (inv *mockInvoice) snapshot() *mockInvoice {
	c := *inv
	return &c
}

type invoiceStore struct {
	mu       sync.Mutex
	baseURL  string
	now      func() time.Time
	invoices map[string][]*mockInvoice
}

func newInvoiceStore(baseURL string, now func() time.Time) *invoiceStore {
	return &invoiceStore{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		now:      now,
		invoices: make(map[string][]*mockInvoice),
	}
}

func validateCreate(body createBody) []validationError {
	var errs []validationError
	amount, err := strconv.ParseFloat(body.Amount, 64)
	switch {
	case err != nil:
		errs = append(errs, validationError{Path: "amount", Message: "Amount should be a decimal number"})
	case amount < 0:
		errs = append(errs, validationError{Path: "amount", Message: "Amount should be greater than 0"})
	}
	if len(body.Currency) < 3 {
		errs = append(errs, validationError{Path: "currency", Message: "Currency is invalid"})
	}
	return errs
}

func (s *invoiceStore) create(storeID string, body createBody) *mockInvoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now().UTC()
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:22]
	inv := &mockInvoice{
		ID:                   id,
		StoreID:              storeID,
		Amount:               body.Amount,
		Currency:             strings.ToUpper(body.Currency),
		Type:                 "Standard",
		CheckoutLink:         s.baseURL + "/i/" + id,
		Status:               "New",
		AdditionalStatus:     "None",
		CreatedTime:          created.Unix(),
		ExpirationTime:       created.Add(expirationMinutes * time.Minute).Unix(),
		MonitoringExpiration: created.Add((expirationMinutes + monitoringMinutes) * time.Minute).Unix(),
		Metadata:             body.Metadata,
		Checkout: mockCheckout{
			SpeedPolicy:       "MediumSpeed",
			PaymentMethods:    []string{"BTC"},
			ExpirationMinutes: expirationMinutes,
			MonitoringMinutes: monitoringMinutes,
		},
	}
	if inv.Metadata == nil {
		inv.Metadata = map[string]any{}
	}

	s.invoices[storeID] = append(s.invoices[storeID], inv)
	return inv.snapshot()
}

func (s *invoiceStore) get(storeID, invoiceID string) (*mockInvoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invoices[storeID] {
		if inv.ID == invoiceID {
			return inv.snapshot(), true
		}
	}
	return nil, false
}

// list returns the store's invoices, newest first.
func (s *invoiceStore) list(storeID string) []*mockInvoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.invoices[storeID]
	out := make([]*mockInvoice, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i].snapshot())
	}
	return out
}

// markStatus supports the two manual transitions Greenfield allows.
func (s *invoiceStore) markStatus(storeID, invoiceID, status string) (*mockInvoice, bool, []validationError) {
	if status != "Invalid" && status != "Settled" {
		return nil, true, []validationError{{Path: "status", Message: "Status can only be Invalid or Settled"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invoices[storeID] {
		if inv.ID == invoiceID {
			inv.Status = status
			inv.AdditionalStatus = "Marked"
			return inv.snapshot(), true, nil
		}
	}
	return nil, false, nil
}
