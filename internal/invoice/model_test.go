package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		expected      string
		expectedError bool
	}{
		{name: "String", payload: `{"amount":"6.15","currency":"EUR"}`, expected: "6.15"},
		{name: "Number", payload: `{"amount":6.15,"currency":"EUR"}`, expected: "6.15"},
		{name: "LargeNumber", payload: `{"amount":12345678901234567.891,"currency":"EUR"}`, expected: "12345678901234567.891"},
		{name: "Negative", payload: `{"amount":-1,"currency":"EUR"}`, expected: "-1"},
		{name: "Missing", payload: `{"currency":"EUR"}`, expected: ""},
		{name: "Null", payload: `{"amount":null,"currency":"EUR"}`, expected: ""},
		{name: "Object", payload: `{"amount":{"value":1},"currency":"EUR"}`, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateRequest
			err := json.Unmarshal([]byte(tt.payload), &req)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.Amount)
			assert.Equal(t, "EUR", req.Currency)
		})
	}
}
