package webhook

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Event is an invoice webhook delivery.
type Event struct {
	DeliveryID         string `json:"deliveryId"`
	WebhookID          string `json:"webhookId"`
	OriginalDeliveryID string `json:"originalDeliveryId"`
	IsRedelivery       bool   `json:"isRedelivery"`
	Type               string `json:"type"`
	Timestamp          int64  `json:"timestamp"`
	StoreID            string `json:"storeId"`
	InvoiceID          string `json:"invoiceId"`

	PartiallyPaid   bool `json:"partiallyPaid,omitempty"`
	AfterExpiration bool `json:"afterExpiration,omitempty"`
	OverPaid        bool `json:"overPaid,omitempty"`
	ManuallyMarked  bool `json:"manuallyMarked,omitempty"`
}

var (
	ErrMalformedEvent   = errors.New("malformed webhook event")
	ErrMissingInvoiceID = errors.New("webhook event has no invoiceId")
)

func ParseEvent(body []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, errors.Wrap(ErrMalformedEvent, err.Error())
	}
	if event.InvoiceID == "" {
		return nil, ErrMissingInvoiceID
	}
	return &event, nil
}
