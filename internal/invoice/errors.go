package invoice

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindNotFound    Kind = "NotFound"
	KindForbidden   Kind = "Forbidden"
	KindInvalidData Kind = "InvalidData"
)

const (
	notFoundMessage          = "Invoice could not be found."
	createForbiddenMessage   = "Forbidden. Invoice could not be created."
	statusForbiddenMessage   = "Forbidden. Invoice could not be marked as invalid."
	invalidDataMessagePrefix = "Error: "
)

// Error is a failure reported by the Greenfield API, classified by Kind.
// Status is the HTTP status code of the response that caused it.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// AsError returns the classified error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func notFound(status int) *Error {
	return &Error{Kind: KindNotFound, Message: notFoundMessage, Status: status}
}

func forbidden(message string, status int) *Error {
	return &Error{Kind: KindForbidden, Message: message, Status: status}
}

func invalidData(body []byte, status int) *Error {
	return &Error{Kind: KindInvalidData, Message: invalidDataMessage(body), Status: status}
}

// invalidDataMessage joins the message of every entry of a Greenfield error
// array, each followed by ", ". A body that is not an array yields the bare
// prefix.
func invalidDataMessage(body []byte) string {
	var b strings.Builder
	b.WriteString(invalidDataMessagePrefix)

	var entries []any
	if err := json.Unmarshal(body, &entries); err != nil {
		return b.String()
	}

	for _, entry := range entries {
		b.WriteString(entryMessage(entry))
		b.WriteString(", ")
	}
	return b.String()
}

func entryMessage(entry any) string {
	fields, ok := entry.(map[string]any)
	if !ok {
		return "undefined"
	}
	message, ok := fields["message"]
	if !ok {
		return "undefined"
	}

	switch v := message.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}
