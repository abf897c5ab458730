package invoice

// FieldType is the rendering hint attached to an output field.
type FieldType string

const (
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldDatetime FieldType = "datetime"
)

// OutputField describes how one value of a Record is presented. Keys use "__"
// to step into metadata or checkout and a trailing "[]" for list values.
type OutputField struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// OutputFields lists the fields exposed for an invoice. metadata__taxIncluded and
// checkout__defaultLanguage are not guaranteed to be present.
var OutputFields = []OutputField{
	{Key: "id", Label: "Invoice ID", Type: FieldString},
	{Key: "metadata__orderId", Label: "Order ID", Type: FieldString},
	{Key: "metadata__posData", Label: "POS Data", Type: FieldString},
	{Key: "metadata__itemDesc", Label: "Item Description", Type: FieldString},
	{Key: "metadata__buyerEmail", Label: "Buyer Email", Type: FieldString},
	{Key: "metadata__buyerName", Label: "Buyer Name", Type: FieldString},
	{Key: "metadata__physical", Label: "Is Physical", Type: FieldBoolean},
	{Key: "metadata__taxIncluded", Label: "Tax Amount Included", Type: FieldBoolean},
	{Key: "checkout__speedPolicy", Label: "Speed Policy", Type: FieldString},
	{Key: "checkout__paymentMethods[]", Label: "Payment Method", Type: FieldString},
	{Key: "checkout__expirationMinutes", Label: "Expiration Minutes", Type: FieldString},
	{Key: "checkout__monitoringMinutes", Label: "Monitoring Minutes", Type: FieldString},
	{Key: "checkout__paymentTolerance", Label: "Payment Tolerance", Type: FieldNumber},
	{Key: "checkout__redirectURL", Label: "Redirect URL", Type: FieldString},
	{Key: "checkout__redirectAutomatically", Label: "Redirect Automatically", Type: FieldBoolean},
	{Key: "checkout__defaultLanguage", Label: "Default Language", Type: FieldString},
	{Key: "checkoutLink", Label: "Payment URL", Type: FieldString},
	{Key: "status", Label: "Status", Type: FieldString},
	{Key: "additionalStatus", Label: "Additional Status", Type: FieldString},
	{Key: "createdTime", Label: "Invoice Created At", Type: FieldDatetime},
	{Key: "amount", Label: "Amount", Type: FieldNumber},
	{Key: "currency", Label: "Currency", Type: FieldString},
	{Key: "expirationTime", Label: "Invoice Expiration", Type: FieldDatetime},
	{Key: "monitoringExpiration", Label: "Monitoring Expiration", Type: FieldDatetime},
}
