package preferences

import (
	"fmt"
	"sync"

	wapc "github.com/wapc/wapc-guest-tinygo"

	sdk "github.com/Rijul-Ahuja/RemotePreferences"
	"github.com/Rijul-Ahuja/RemotePreferences/codec"
	"github.com/Rijul-Ahuja/RemotePreferences/dispatch"
	"github.com/Rijul-Ahuja/RemotePreferences/logging"
	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

// Config controls how a Client instance reaches the remote preference service.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// ServiceAddress identifies the remote preference service that owns the
	// records.
	ServiceAddress string

	// SetName is the preference set this client is bound to for its lifetime.
	SetName string

	// StrictMode controls how unreachable-service conditions surface: as
	// errors at the failing call (true), or degraded to each operation's
	// default result (false). It does not affect type-mismatch errors.
	StrictMode bool

	// HostCall overrides the waPC host function used for preference operations.
	HostCall wire.HostCall

	// Events routes inbound change notifications to this client. Required
	// for listener registration; read and edit operations work without it.
	Events *sdk.Router

	// Dispatcher receives notification callbacks. When nil the client owns
	// a dedicated queue and stops it on Close.
	Dispatcher *dispatch.Queue

	// Log receives best-effort diagnostics. Defaults to a no-op logger.
	Log logging.Client
}

// Client reads and writes one preference set owned by the remote service.
// Reads and edits are synchronous; change notifications arrive on the
// client's dispatch queue.
type Client struct {
	runtime  sdk.RuntimeConfig
	service  string
	set      string
	strict   bool
	hostCall wire.HostCall
	events   *sdk.Router
	queue    *dispatch.Queue
	ownQueue bool
	log      logging.Client

	mu        sync.Mutex
	listeners map[Listener]string // listener -> subscription handle
	closed    bool
}

// New creates a client bound to one preference set.
func New(config Config) (*Client, error) {
	if config.ServiceAddress == "" {
		return nil, ErrNoServiceAddress
	}
	if config.SetName == "" {
		return nil, ErrNoSetName
	}

	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	queue := config.Dispatcher
	ownQueue := false
	if queue == nil {
		queue = dispatch.New()
		ownQueue = true
	}

	logger := config.Log
	if logger == nil {
		logger = logging.Nop()
	}

	return &Client{
		runtime:   runtime,
		service:   config.ServiceAddress,
		set:       config.SetName,
		strict:    config.StrictMode,
		hostCall:  hostCall,
		events:    config.Events,
		queue:     queue,
		ownQueue:  ownQueue,
		log:       logger,
		listeners: make(map[Listener]string),
	}, nil
}

// SetName returns the name of the preference set this client is bound to.
func (c *Client) SetName() string { return c.set }

// GetString returns the string stored at key, or def when no record exists.
func (c *Client) GetString(key, def string) (string, error) {
	v, err := c.querySingle(key, codec.TypeString)
	if err != nil || v == nil {
		return def, err
	}
	return v.(string), nil
}

// GetStringSet returns the string set stored at key, or def when no record
// exists.
func (c *Client) GetStringSet(key string, def []string) ([]string, error) {
	v, err := c.querySingle(key, codec.TypeStringSet)
	if err != nil || v == nil {
		return def, err
	}
	return v.([]string), nil
}

// GetInt returns the 32-bit integer stored at key, or def when no record
// exists.
func (c *Client) GetInt(key string, def int32) (int32, error) {
	v, err := c.querySingle(key, codec.TypeInt)
	if err != nil || v == nil {
		return def, err
	}
	return v.(int32), nil
}

// GetInt64 returns the 64-bit integer stored at key, or def when no record
// exists.
func (c *Client) GetInt64(key string, def int64) (int64, error) {
	v, err := c.querySingle(key, codec.TypeInt64)
	if err != nil || v == nil {
		return def, err
	}
	return v.(int64), nil
}

// GetFloat returns the float stored at key, or def when no record exists.
func (c *Client) GetFloat(key string, def float32) (float32, error) {
	v, err := c.querySingle(key, codec.TypeFloat)
	if err != nil || v == nil {
		return def, err
	}
	return v.(float32), nil
}

// GetBool returns the boolean stored at key, or def when no record exists.
func (c *Client) GetBool(key string, def bool) (bool, error) {
	v, err := c.querySingle(key, codec.TypeBool)
	if err != nil || v == nil {
		return def, err
	}
	return v.(bool), nil
}

// GetAll returns every record in the set, decoded. When the service cannot
// be reached the result is an empty map in lenient mode, or an error in
// strict mode.
func (c *Client) GetAll() (map[string]any, error) {
	rows, err := c.query(c.baseAddress(), []string{wire.ColumnKey, wire.ColumnType, wire.ColumnValue})
	if err != nil {
		return map[string]any{}, c.access(err)
	}

	all := make(map[string]any, len(rows))
	for _, row := range rows {
		if row.Type == codec.TypeNull {
			continue
		}
		v, err := codec.Decode(row.Type, row.Value)
		if err != nil {
			return map[string]any{}, c.access(fmt.Errorf("%w: key %q: %v", sdk.ErrHostResponseInvalid, row.Key, err))
		}
		all[row.Key] = v
	}
	return all, nil
}

// Contains reports whether a record exists at key with a non-null value.
func (c *Client) Contains(key string) (bool, error) {
	if key == "" {
		return false, ErrKeyEmpty
	}
	rows, err := c.query(c.keyAddress(key), []string{wire.ColumnType})
	if err != nil {
		return false, c.access(err)
	}
	return len(rows) > 0 && rows[0].Type != codec.TypeNull, nil
}

// querySingle fetches one record and decodes it against the requested type.
// A nil value with a nil error means absence: the caller returns its default.
func (c *Client) querySingle(key string, want codec.Type) (any, error) {
	if key == "" {
		return nil, ErrKeyEmpty
	}

	rows, err := c.query(c.keyAddress(key), []string{wire.ColumnType, wire.ColumnValue})
	if err != nil {
		return nil, c.access(err)
	}
	if len(rows) == 0 || rows[0].Type == codec.TypeNull {
		return nil, nil
	}
	if rows[0].Type != want {
		return nil, fmt.Errorf("%w: stored %s, requested %s", ErrTypeMismatch, rows[0].Type, want)
	}

	v, err := codec.Decode(rows[0].Type, rows[0].Value)
	if err != nil {
		return nil, c.access(fmt.Errorf("%w: %v", sdk.ErrHostResponseInvalid, err))
	}
	return v, nil
}

// access translates reachability failures per the client's mode. Strict mode
// surfaces the error; lenient mode logs it and lets the operation fall back
// to its default result.
func (c *Client) access(err error) error {
	if err == nil || c.strict {
		return err
	}
	c.log.Debug("preferences: " + err.Error())
	return nil
}

func (c *Client) keyAddress(key string) string {
	return wire.Address{Service: c.service, Set: c.set, Key: key}.String()
}

func (c *Client) baseAddress() string {
	return wire.Address{Service: c.service, Set: c.set}.String()
}

// query issues one query exchange and returns the matching rows. A missing
// status from the service means no rows, not a failure.
func (c *Client) query(address string, columns []string) ([]wire.Record, error) {
	payload, err := wire.Marshal(wire.QueryRequest{Address: address, Columns: columns})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	resp, err := c.hostCall(c.runtime.Namespace, wire.CapabilityName, wire.FnQuery, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	var r wire.QueryResponse
	if err := wire.Unmarshal(resp, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrHostResponseInvalid, err)
	}

	switch r.Status.Code {
	case wire.StatusOK:
		return r.Rows, nil
	case wire.StatusMissing:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", sdk.ErrHostError, r.Status.Status)
	}
}

// remoteDelete removes the record at address, or the whole set when given
// the base address. Deleting something that does not exist is a success.
func (c *Client) remoteDelete(address string) error {
	return c.statusCall(wire.FnDelete, wire.DeleteRequest{Address: address})
}

// remoteBulkInsert stores all records in a single exchange.
func (c *Client) remoteBulkInsert(address string, records []wire.Record) error {
	return c.statusCall(wire.FnBulkInsert, wire.BulkInsertRequest{Address: address, Records: records})
}

// remoteUnsubscribe cancels a change subscription.
func (c *Client) remoteUnsubscribe(handle string) error {
	return c.statusCall(wire.FnUnsubscribe, wire.UnsubscribeRequest{Handle: handle})
}

// statusCall issues one exchange whose reply is a bare status.
func (c *Client) statusCall(function string, req any) error {
	payload, err := wire.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	resp, err := c.hostCall(c.runtime.Namespace, wire.CapabilityName, function, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	var r wire.StatusResponse
	if err := wire.Unmarshal(resp, &r); err != nil {
		return fmt.Errorf("%w: %v", sdk.ErrHostResponseInvalid, err)
	}
	if !r.Status.OK() && r.Status.Code != wire.StatusMissing {
		return fmt.Errorf("%w: %s", sdk.ErrHostError, r.Status.Status)
	}
	return nil
}

// remoteSubscribe registers for change events under address and returns the
// subscription handle.
func (c *Client) remoteSubscribe(address string) (string, error) {
	payload, err := wire.Marshal(wire.SubscribeRequest{Address: address, Recursive: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	resp, err := c.hostCall(c.runtime.Namespace, wire.CapabilityName, wire.FnSubscribe, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sdk.ErrHostCall, err)
	}

	var r wire.SubscribeResponse
	if err := wire.Unmarshal(resp, &r); err != nil {
		return "", fmt.Errorf("%w: %v", sdk.ErrHostResponseInvalid, err)
	}
	if !r.Status.OK() {
		return "", fmt.Errorf("%w: %s", sdk.ErrHostError, r.Status.Status)
	}
	if r.Handle == "" {
		return "", fmt.Errorf("%w: subscription handle missing", sdk.ErrHostResponseInvalid)
	}
	return r.Handle, nil
}
