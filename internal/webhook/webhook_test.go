package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `{"deliveryId":"d1","webhookId":"w1","type":"InvoiceSettled","timestamp":1625746644,"storeId":"store1","invoiceId":"inv1","manuallyMarked":true}`

func TestHMACVerifier_Verify(t *testing.T) {
	valid := Sign("secret", []byte(body))

	tests := []struct {
		name        string
		secret      string
		signature   string
		expectedErr error
	}{
		{name: "Valid", secret: "secret", signature: valid},
		{name: "UppercaseHex", secret: "secret", signature: "sha256=" + strings.ToUpper(strings.TrimPrefix(valid, "sha256="))},
		{name: "Missing", secret: "secret", signature: "", expectedErr: ErrMissingSignature},
		{name: "WrongSecret", secret: "other", signature: valid, expectedErr: ErrInvalidSignature},
		{name: "NoPrefix", secret: "secret", signature: strings.TrimPrefix(valid, "sha256="), expectedErr: ErrInvalidSignature},
		{name: "NotHex", secret: "secret", signature: "sha256=zz", expectedErr: ErrInvalidSignature},
		{name: "NoSecret", secret: "", signature: valid, expectedErr: ErrNoSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHMACVerifier(tt.secret).Verify(tt.signature, []byte(body))
			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}

func TestHMACVerifier_TamperedBody(t *testing.T) {
	signature := Sign("secret", []byte(body))

	err := NewHMACVerifier("secret").Verify(signature, []byte(strings.Replace(body, "inv1", "inv2", 1)))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "InvoiceSettled", event.Type)
	assert.Equal(t, "inv1", event.InvoiceID)
	assert.Equal(t, "store1", event.StoreID)
	assert.True(t, event.ManuallyMarked)

	_, err = ParseEvent([]byte(`{"type":"InvoiceCreated"}`))
	assert.ErrorIs(t, err, ErrMissingInvoiceID)

	_, err = ParseEvent([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}
