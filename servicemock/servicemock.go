package servicemock

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	sdk "github.com/Rijul-Ahuja/RemotePreferences"
	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

// Config configures the in-memory preference service.
type Config struct {
	// Namespace is the namespace expected on host calls. Defaults to
	// sdk.DefaultNamespace.
	Namespace string

	// Seed pre-populates the service: set name -> key -> record.
	Seed map[string]map[string]wire.Record

	// Fail maps host function names (wire.FnQuery, ...) to errors returned
	// before the request is processed, simulating an unreachable or denied
	// service.
	Fail map[string]error
}

// Call records one request for later assertions.
type Call struct {
	Function string
	Address  string
}

type subscription struct {
	address   string
	recursive bool
}

// Service is an in-memory preference service speaking the wire protocol. It
// stands in for the remote collaborator in tests: it persists records per
// set, honors the whole-set delete sentinel, and pushes change events into
// the guest's notify entry point for every matching subscription, including
// changes originated by the client under test.
type Service struct {
	namespace string

	mu      sync.Mutex
	sets    map[string]map[string]wire.Record
	subs    map[string]subscription
	nextSub int
	fail    map[string]error
	notify  func([]byte) ([]byte, error)

	// Calls stores a history of requests for assertions.
	Calls []Call
}

// New creates a service, optionally pre-populated with Seed records.
func New(cfg Config) *Service {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = sdk.DefaultNamespace
	}

	sets := make(map[string]map[string]wire.Record)
	for set, records := range cfg.Seed {
		sets[set] = make(map[string]wire.Record, len(records))
		for key, rec := range records {
			rec.Key = key
			sets[set][key] = rec
		}
	}

	fail := make(map[string]error, len(cfg.Fail))
	for fn, err := range cfg.Fail {
		fail[fn] = err
	}

	return &Service{
		namespace: namespace,
		sets:      sets,
		subs:      make(map[string]subscription),
		fail:      fail,
	}
}

// Connect wires change-event delivery to the guest's notify entry point,
// typically (*sdk.Router).HandleNotify. Without it events are dropped.
func (s *Service) Connect(notify func([]byte) ([]byte, error)) {
	s.notify = notify
}

// FailWith configures fn to fail with err on subsequent calls; a nil err
// clears the failure.
func (s *Service) FailWith(fn string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, fn)
		return
	}
	s.fail[fn] = err
}

// Record returns the stored record for set/key.
func (s *Service) Record(set, key string) (wire.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sets[set][key]
	return rec, ok
}

// SubscriptionCount reports the number of active subscriptions.
func (s *Service) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// HostCall is the transport entry point; inject it as the client's HostCall.
func (s *Service) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if namespace != s.namespace {
		return nil, fmt.Errorf("unexpected namespace %q", namespace)
	}
	if capability != wire.CapabilityName {
		return nil, fmt.Errorf("unexpected capability %q", capability)
	}

	s.mu.Lock()
	s.Calls = append(s.Calls, Call{Function: function, Address: requestAddress(function, payload)})
	if err := s.fail[function]; err != nil {
		s.mu.Unlock()
		return nil, err
	}

	var resp []byte
	var events []wire.Event
	var err error
	switch function {
	case wire.FnQuery:
		resp, err = s.handleQuery(payload)
	case wire.FnDelete:
		resp, events, err = s.handleDelete(payload)
	case wire.FnBulkInsert:
		resp, events, err = s.handleBulkInsert(payload)
	case wire.FnSubscribe:
		resp, err = s.handleSubscribe(payload)
	case wire.FnUnsubscribe:
		resp, err = s.handleUnsubscribe(payload)
	default:
		err = fmt.Errorf("unknown function %q", function)
	}
	notify := s.notify
	s.mu.Unlock()

	// Deliver events outside the lock: the guest's handler may issue host
	// calls of its own, such as a lazy unsubscribe.
	if notify != nil {
		for _, ev := range events {
			if evPayload, merr := wire.Marshal(ev); merr == nil {
				_, _ = notify(evPayload)
			}
		}
	}
	return resp, err
}

// requestAddress extracts the address (or handle) from a request payload for
// the call log.
func requestAddress(function string, payload []byte) string {
	if function == wire.FnUnsubscribe {
		var req wire.UnsubscribeRequest
		if wire.Unmarshal(payload, &req) == nil {
			return req.Handle
		}
		return ""
	}
	var req struct {
		Address string `json:"address"`
	}
	if wire.Unmarshal(payload, &req) == nil {
		return req.Address
	}
	return ""
}

func (s *Service) handleQuery(payload []byte) ([]byte, error) {
	var req wire.QueryRequest
	if err := wire.Unmarshal(payload, &req); err != nil {
		return statusResponse(wire.StatusBadInput, "bad request")
	}
	addr, err := wire.ParseAddress(req.Address)
	if err != nil {
		return statusResponse(wire.StatusBadInput, "bad address")
	}

	records := s.sets[addr.Set]
	var rows []wire.Record
	if addr.Key == "" {
		for _, rec := range records {
			rows = append(rows, project(rec, req.Columns))
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	} else if rec, ok := records[addr.Key]; ok {
		rows = append(rows, project(rec, req.Columns))
	}

	return wire.Marshal(wire.QueryResponse{
		Status: wire.Status{Status: "OK", Code: wire.StatusOK},
		Rows:   rows,
	})
}

func (s *Service) handleDelete(payload []byte) ([]byte, []wire.Event, error) {
	var req wire.DeleteRequest
	if err := wire.Unmarshal(payload, &req); err != nil {
		resp, rerr := statusResponse(wire.StatusBadInput, "bad request")
		return resp, nil, rerr
	}
	addr, err := wire.ParseAddress(req.Address)
	if err != nil {
		resp, rerr := statusResponse(wire.StatusBadInput, "bad address")
		return resp, nil, rerr
	}

	records := s.sets[addr.Set]
	var events []wire.Event
	if addr.Key == "" {
		// Whole-set delete announces itself once, on the base address.
		if len(records) > 0 {
			delete(s.sets, addr.Set)
			events = s.eventsFor(req.Address)
		}
	} else if _, ok := records[addr.Key]; ok {
		delete(records, addr.Key)
		events = s.eventsFor(req.Address)
	}

	resp, rerr := statusResponse(wire.StatusOK, "OK")
	return resp, events, rerr
}

func (s *Service) handleBulkInsert(payload []byte) ([]byte, []wire.Event, error) {
	var req wire.BulkInsertRequest
	if err := wire.Unmarshal(payload, &req); err != nil {
		resp, rerr := statusResponse(wire.StatusBadInput, "bad request")
		return resp, nil, rerr
	}
	addr, err := wire.ParseAddress(req.Address)
	if err != nil || addr.Key != "" {
		resp, rerr := statusResponse(wire.StatusBadInput, "bad address")
		return resp, nil, rerr
	}

	var events []wire.Event
	for _, rec := range req.Records {
		if rec.Key == "" {
			resp, rerr := statusResponse(wire.StatusBadInput, "record key is empty")
			return resp, nil, rerr
		}
		if s.sets[addr.Set] == nil {
			s.sets[addr.Set] = make(map[string]wire.Record)
		}
		s.sets[addr.Set][rec.Key] = rec
		changed := wire.Address{Service: addr.Service, Set: addr.Set, Key: rec.Key}.String()
		events = append(events, s.eventsFor(changed)...)
	}

	resp, rerr := statusResponse(wire.StatusOK, "OK")
	return resp, events, rerr
}

func (s *Service) handleSubscribe(payload []byte) ([]byte, error) {
	var req wire.SubscribeRequest
	if err := wire.Unmarshal(payload, &req); err != nil {
		return statusResponse(wire.StatusBadInput, "bad request")
	}

	s.nextSub++
	handle := fmt.Sprintf("sub-%d", s.nextSub)
	s.subs[handle] = subscription{address: req.Address, recursive: req.Recursive}

	return wire.Marshal(wire.SubscribeResponse{
		Status: wire.Status{Status: "OK", Code: wire.StatusOK},
		Handle: handle,
	})
}

func (s *Service) handleUnsubscribe(payload []byte) ([]byte, error) {
	var req wire.UnsubscribeRequest
	if err := wire.Unmarshal(payload, &req); err != nil {
		return statusResponse(wire.StatusBadInput, "bad request")
	}
	delete(s.subs, req.Handle)
	return statusResponse(wire.StatusOK, "OK")
}

// eventsFor builds one event per subscription whose address is a prefix of
// the changed address. Self-originated changes are not filtered out.
func (s *Service) eventsFor(changed string) []wire.Event {
	var events []wire.Event
	for handle, sub := range s.subs {
		if !sub.recursive && sub.address != changed {
			continue
		}
		if strings.HasPrefix(changed, sub.address) {
			events = append(events, wire.Event{Handle: handle, Address: changed})
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Handle < events[j].Handle })
	return events
}

// project copies the requested columns of a record into a response row.
func project(rec wire.Record, columns []string) wire.Record {
	var row wire.Record
	for _, col := range columns {
		switch col {
		case wire.ColumnKey:
			row.Key = rec.Key
		case wire.ColumnType:
			row.Type = rec.Type
		case wire.ColumnValue:
			row.Value = rec.Value
		}
	}
	return row
}

func statusResponse(code int32, text string) ([]byte, error) {
	return wire.Marshal(wire.StatusResponse{Status: wire.Status{Status: text, Code: code}})
}
