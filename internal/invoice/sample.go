package invoice

import (
	"encoding/json"
)

const sampleInvoice = `{
	"id": "VDdmfYJzJm9VtqW8hqhypF",
	"checkoutLink": "https://btcpay.example.com/i/VDdmfYJzJm9VtqW8hqhypF",
	"status": "Expired",
	"additionalStatus": "None",
	"createdTime": "2021-07-08T12:17:24.000Z",
	"expirationTime": "2021-07-08T12:32:24.000Z",
	"monitoringExpiration": "2021-07-08T13:17:24.000Z",
	"amount": 6.15,
	"currency": "EUR",
	"metadata": {},
	"checkout": {
		"speedPolicy": "MediumSpeed",
		"paymentMethods": ["BTC", "BTC-LightningNetwork"],
		"expirationMinutes": 15,
		"monitoringMinutes": 60,
		"paymentTolerance": 0.0,
		"redirectURL": null,
		"redirectAutomatically": false,
		"defaultLanguage": null
	}
}`

// Sample returns a representative normalized invoice, used when no real
// invoice is available to show the shape of the output.
func Sample() *Record {
	var record Record
	if err := json.Unmarshal([]byte(sampleInvoice), &record); err != nil {
		panic(err)
	}
	return &record
}
