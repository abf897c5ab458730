package invoice

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// Record is the normalized, caller-facing shape of a Greenfield invoice.
// Timestamps are ISO-8601 strings and Amount is always numeric.
//
// The typed fields are a read view. A record produced by Normalize or decoded
// from JSON is written back as the object it was built from, with only amount,
// the timestamps and an injected storeId replaced, so every other field keeps
// its wire value, nulls and empty objects included.
type Record struct {
	ID                   string          `json:"id"`
	StoreID              string          `json:"storeId,omitempty"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	Status               string          `json:"status"`
	AdditionalStatus     string          `json:"additionalStatus"`
	CreatedTime          string          `json:"createdTime"`
	ExpirationTime       string          `json:"expirationTime"`
	MonitoringExpiration string          `json:"monitoringExpiration"`
	Metadata             json.RawMessage `json:"metadata,omitempty"`
	Checkout             *Checkout       `json:"checkout,omitempty"`
	CheckoutLink         string          `json:"checkoutLink"`

	wire map[string]json.RawMessage
}

// MarshalJSON writes the object the record was built from. Records assembled
// in Go are written from their typed fields; a non-finite amount is written as
// null since JSON has no NaN.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.wire != nil {
		return json.Marshal(r.wire)
	}

	type record Record
	out := struct {
		record
		Amount *float64 `json:"amount"`
	}{record: record(r)}
	if !math.IsNaN(r.Amount) && !math.IsInf(r.Amount, 0) {
		out.Amount = &r.Amount
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an already normalized record, e.g. one carried in an
// event. Nothing is converted again; an amount that is not a number is NaN.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("invoice record is null")
	}

	amount := math.NaN()
	if raw, ok := fields["amount"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil && !isNull(raw) {
			amount = n
		}
	}

	*r = *newRecord(fields, amount)
	return nil
}

// MetadataFields decodes the metadata object. Numbers are kept as json.Number
// so that large integers survive.
func (r *Record) MetadataFields() (map[string]any, error) {
	if len(r.Metadata) == 0 || isNull(r.Metadata) {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(r.Metadata))
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, errors.Wrap(err, "decoding invoice metadata")
	}
	return fields, nil
}

// Checkout is the payment configuration attached to an invoice. Every field is
// optional; defaultLanguage in particular is not always sent by the server.
type Checkout struct {
	SpeedPolicy           *string  `json:"speedPolicy,omitempty"`
	PaymentMethods        []string `json:"paymentMethods,omitempty"`
	ExpirationMinutes     *float64 `json:"expirationMinutes,omitempty"`
	MonitoringMinutes     *float64 `json:"monitoringMinutes,omitempty"`
	PaymentTolerance      *float64 `json:"paymentTolerance,omitempty"`
	RedirectURL           *string  `json:"redirectURL,omitempty"`
	RedirectAutomatically *bool    `json:"redirectAutomatically,omitempty"`
	DefaultLanguage       *string  `json:"defaultLanguage,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var checkoutFields = []string{
	"speedPolicy", "paymentMethods", "expirationMinutes", "monitoringMinutes",
	"paymentTolerance", "redirectURL", "redirectAutomatically", "defaultLanguage",
}

func (c *Checkout) UnmarshalJSON(data []byte) error {
	type checkout Checkout
	var decoded checkout
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	extra, err := extraFields(data, checkoutFields)
	if err != nil {
		return err
	}

	*c = Checkout(decoded)
	c.Extra = extra
	return nil
}

func (c Checkout) MarshalJSON() ([]byte, error) {
	type checkout Checkout
	base, err := json.Marshal(checkout(c))
	if err != nil {
		return nil, err
	}
	return mergeFields(base, c.Extra)
}

// CreateRequest carries the caller-supplied values for a new invoice. Every
// field is forwarded as given, empty ones included.
type CreateRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	OrderID       string `json:"orderId"`
	OrderURL      string `json:"orderUrl"`
	BuyerName     string `json:"buyerName"`
	BuyerEmail    string `json:"buyerEmail"`
	BuyerCountry  string `json:"buyerCountry"`
	BuyerZip      string `json:"buyerZip"`
	BuyerState    string `json:"buyerState"`
	BuyerCity     string `json:"buyerCity"`
	BuyerAddress1 string `json:"buyerAddress1"`
	BuyerAddress2 string `json:"buyerAddress2"`
	BuyerPhone    string `json:"buyerPhone"`
}

// UnmarshalJSON accepts the amount either as a decimal string or as a JSON
// number, whose literal text is kept so no precision is lost.
func (r *CreateRequest) UnmarshalJSON(data []byte) error {
	type createRequest CreateRequest
	aux := struct {
		*createRequest
		Amount json.RawMessage `json:"amount"`
	}{createRequest: (*createRequest)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Amount)
	switch {
	case len(raw) == 0 || isNull(raw):
		r.Amount = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &r.Amount); err != nil {
			return err
		}
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		r.Amount = string(raw)
	default:
		return errors.Errorf("amount must be a number or a string, got %s", raw)
	}
	return nil
}

type createInvoiceBody struct {
	Amount   string         `json:"amount"`
	Currency string         `json:"currency"`
	Metadata createMetadata `json:"metadata"`
}

type createMetadata struct {
	OrderID       string `json:"orderId"`
	OrderURL      string `json:"orderUrl"`
	BuyerName     string `json:"buyerName"`
	BuyerEmail    string `json:"buyerEmail"`
	BuyerCountry  string `json:"buyerCountry"`
	BuyerZip      string `json:"buyerZip"`
	BuyerState    string `json:"buyerState"`
	BuyerCity     string `json:"buyerCity"`
	BuyerAddress1 string `json:"buyerAddress1"`
	BuyerAddress2 string `json:"buyerAddress2"`
	BuyerPhone    string `json:"buyerPhone"`
}

func (r CreateRequest) body() createInvoiceBody {
	return createInvoiceBody{
		Amount:   r.Amount,
		Currency: r.Currency,
		Metadata: createMetadata{
			OrderID:       r.OrderID,
			OrderURL:      r.OrderURL,
			BuyerName:     r.BuyerName,
			BuyerEmail:    r.BuyerEmail,
			BuyerCountry:  r.BuyerCountry,
			BuyerZip:      r.BuyerZip,
			BuyerState:    r.BuyerState,
			BuyerCity:     r.BuyerCity,
			BuyerAddress1: r.BuyerAddress1,
			BuyerAddress2: r.BuyerAddress2,
			BuyerPhone:    r.BuyerPhone,
		},
	}
}

type statusBody struct {
	Status string `json:"status"`
}
