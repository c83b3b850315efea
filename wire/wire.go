package wire

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/Rijul-Ahuja/RemotePreferences/codec"
)

// CapabilityName is the host capability implementing the preference service.
const CapabilityName = "preferences"

// Host functions exposed by the preference capability, plus the guest
// function the service pushes change events into.
const (
	FnQuery       = "query"
	FnDelete      = "delete"
	FnBulkInsert  = "bulkinsert"
	FnSubscribe   = "subscribe"
	FnUnsubscribe = "unsubscribe"
	FnNotify      = "notify"
)

// Columns a query may request for each matching record.
const (
	ColumnKey   = "key"
	ColumnType  = "type"
	ColumnValue = "value"
)

// Status codes reported by the preference service.
const (
	StatusOK       = int32(200)
	StatusBadInput = int32(400)
	StatusDenied   = int32(403)
	StatusMissing  = int32(404)
	StatusError    = int32(500)
)

// HostCall defines the waPC host function signature used for all preference
// operations: namespace, capability, function, payload.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Status carries the outcome of a service request.
type Status struct {
	Status string `json:"status"`
	Code   int32  `json:"code"`
}

// OK reports whether the request succeeded.
func (s Status) OK() bool { return s.Code == StatusOK }

// Record is the unit exchanged with the preference service: a key, a type
// tag, and the encoded value. Responses omit columns the request did not ask
// for.
type Record struct {
	Key   string     `json:"key,omitempty"`
	Type  codec.Type `json:"type"`
	Value string     `json:"value,omitempty"`
}

// QueryRequest asks for the named columns of every record matching the
// address. A key address matches at most one record; a base address matches
// the whole set.
type QueryRequest struct {
	Address string   `json:"address"`
	Columns []string `json:"columns"`
}

// QueryResponse returns one row per matching record.
type QueryResponse struct {
	Status Status   `json:"status"`
	Rows   []Record `json:"rows,omitempty"`
}

// DeleteRequest removes the record at a key address, or every record in the
// set when given the base address.
type DeleteRequest struct {
	Address string `json:"address"`
}

// BulkInsertRequest inserts or replaces all given records in one exchange.
type BulkInsertRequest struct {
	Address string   `json:"address"`
	Records []Record `json:"records"`
}

// StatusResponse is the reply to requests that carry no data.
type StatusResponse struct {
	Status Status `json:"status"`
}

// SubscribeRequest registers for change events under an address prefix.
type SubscribeRequest struct {
	Address   string `json:"address"`
	Recursive bool   `json:"recursive"`
}

// SubscribeResponse returns the handle identifying the new subscription.
type SubscribeResponse struct {
	Status Status `json:"status"`
	Handle string `json:"handle,omitempty"`
}

// UnsubscribeRequest cancels a subscription by handle.
type UnsubscribeRequest struct {
	Handle string `json:"handle"`
}

// Event is pushed by the service to the guest's notify function whenever a
// record under a subscribed address changes. The address names the changed
// record; a base address means the change cannot be attributed to a single
// key.
type Event struct {
	Handle  string `json:"handle"`
	Address string `json:"address"`
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes a wire message.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes a wire message.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
