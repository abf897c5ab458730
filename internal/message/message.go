package message

import (
	"time"

	"github.com/google/uuid"

	"invoice-gateway/internal/invoice"
)

// InvoiceEvent is published for every invoice produced by the webhook trigger.
type InvoiceEvent struct {
	ID         uuid.UUID       `json:"id"`
	Event      string          `json:"event"`
	DeliveryID string          `json:"deliveryId,omitempty"`
	StoreID    string          `json:"storeId"`
	Invoice    *invoice.Record `json:"invoice"`
	CreatedAt  time.Time       `json:"createdAt"`
}
