package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// InvalidDate is the rendering of a timestamp that cannot be converted.
	InvalidDate = "Invalid Date"

	isoLayout = "-01-02T15:04:05.000Z"

	// largest distance from the epoch, in milliseconds, that a timestamp may have
	maxTimeMillis = 8.64e15
)

var timestampFields = []string{"createdTime", "expirationTime", "monitoringExpiration"}

// Normalize converts a wire invoice into a Record. storeID is used when the
// wire object has no storeId of its own. amount and the timestamps are
// converted; every other field is kept exactly as received. Nothing is
// validated: unusable values end up as a NaN amount or an InvalidDate
// timestamp.
func Normalize(wire map[string]json.RawMessage, storeID string) *Record {
	fields := make(map[string]json.RawMessage, len(wire)+1)
	for key, value := range wire {
		fields[key] = value
	}

	if _, ok := fields["storeId"]; !ok {
		fields["storeId"] = mustMarshal(storeID)
	}

	amount := toNumber(wire, "amount")
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		fields["amount"] = json.RawMessage("null")
	} else {
		fields["amount"] = mustMarshal(amount)
	}

	for _, key := range timestampFields {
		fields[key] = mustMarshal(FormatTimestamp(toNumber(wire, key)))
	}

	return newRecord(fields, amount)
}

// newRecord fills the typed view of fields, which become the record's JSON
// form.
func newRecord(fields map[string]json.RawMessage, amount float64) *Record {
	record := &Record{
		ID:                   stringField(fields, "id"),
		StoreID:              stringField(fields, "storeId"),
		Amount:               amount,
		Currency:             stringField(fields, "currency"),
		Status:               stringField(fields, "status"),
		AdditionalStatus:     stringField(fields, "additionalStatus"),
		CreatedTime:          stringField(fields, "createdTime"),
		ExpirationTime:       stringField(fields, "expirationTime"),
		MonitoringExpiration: stringField(fields, "monitoringExpiration"),
		CheckoutLink:         stringField(fields, "checkoutLink"),
		Metadata:             fields["metadata"],
		wire:                 fields,
	}

	// a checkout that is not an object is only available in the JSON form
	if raw, ok := fields["checkout"]; ok && !isNull(raw) {
		var checkout Checkout
		if err := json.Unmarshal(raw, &checkout); err == nil {
			record.Checkout = &checkout
		}
	}
	return record
}

func mustMarshal(v any) json.RawMessage {
	encoded, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return encoded
}

// NormalizeJSON decodes a single wire invoice and normalizes it.
func NormalizeJSON(data []byte, storeID string) (*Record, error) {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, errors.New("invoice payload is null")
	}
	return Normalize(wire, storeID), nil
}

// FormatTimestamp renders epoch seconds as an ISO-8601 UTC date-time with
// millisecond precision, e.g. 2021-07-08T12:17:24.000Z.
func FormatTimestamp(seconds float64) string {
	millis := math.Trunc(seconds * 1000)
	if math.IsNaN(millis) || math.Abs(millis) > maxTimeMillis {
		return InvalidDate
	}

	t := time.UnixMilli(int64(millis)).UTC()

	var year string
	switch y := t.Year(); {
	case y < 0:
		year = fmt.Sprintf("-%06d", -y)
	case y > 9999:
		year = fmt.Sprintf("+%06d", y)
	default:
		year = fmt.Sprintf("%04d", y)
	}
	return year + t.Format(isoLayout)
}

// toNumber coerces wire[key] the way a loosely typed number conversion does:
// a missing key is NaN, null is 0, booleans are 0 or 1 and strings are parsed
// after trimming, the empty string being 0.
func toNumber(wire map[string]json.RawMessage, key string) float64 {
	raw, ok := wire[key]
	if !ok {
		return math.NaN()
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return math.NaN()
	}

	switch v := value.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return v
	case string:
		return parseNumber(v)
	default:
		return math.NaN()
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	// ParseFloat also accepts forms such as "inf" or "1_000"
	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return math.NaN()
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return n
		}
		return math.NaN()
	}
	return n
}

// stringField returns wire[key] as a string. Non-string values keep their JSON
// text and null or missing values are empty.
func stringField(wire map[string]json.RawMessage, key string) string {
	raw, ok := wire[key]
	if !ok || isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
