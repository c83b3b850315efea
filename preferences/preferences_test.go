package preferences_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	sdk "github.com/Rijul-Ahuja/RemotePreferences"
	"github.com/Rijul-Ahuja/RemotePreferences/codec"
	"github.com/Rijul-Ahuja/RemotePreferences/hostmock"
	"github.com/Rijul-Ahuja/RemotePreferences/preferences"
	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

const (
	testNamespace = "testing"
	testService   = "com.example.app"
	testSet       = "main"
)

// queryRows builds a canned query response carrying the given rows.
func queryRows(rows ...wire.Record) func() []byte {
	return func() []byte {
		b, _ := wire.Marshal(wire.QueryResponse{
			Status: wire.Status{Status: "OK", Code: wire.StatusOK},
			Rows:   rows,
		})
		return b
	}
}

func newClient(t *testing.T, strict bool, hostCall wire.HostCall) *preferences.Client {
	t.Helper()
	client, err := preferences.New(preferences.Config{
		SDKConfig:      sdk.RuntimeConfig{Namespace: testNamespace},
		ServiceAddress: testService,
		SetName:        testSet,
		StrictMode:     strict,
		HostCall:       hostCall,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newQueryMock(t *testing.T, exp hostmock.Expectation) *hostmock.Mock {
	t.Helper()
	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  testNamespace,
		ExpectedCapability: wire.CapabilityName,
		Functions:          map[string]hostmock.Expectation{wire.FnQuery: exp},
	})
	if err != nil {
		t.Fatalf("failed to create host mock: %v", err)
	}
	return mock
}

func TestNewValidation(t *testing.T) {
	tt := []struct {
		name    string
		cfg     preferences.Config
		wantErr error
	}{
		{
			name:    "Missing Service Address",
			cfg:     preferences.Config{SetName: testSet},
			wantErr: preferences.ErrNoServiceAddress,
		},
		{
			name:    "Missing Set Name",
			cfg:     preferences.Config{ServiceAddress: testService},
			wantErr: preferences.ErrNoSetName,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := preferences.New(tc.cfg); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGetters(t *testing.T) {
	tt := []struct {
		name string
		row  wire.Record
		get  func(*preferences.Client) (any, error)
		want any
	}{
		{
			name: "String",
			row:  wire.Record{Type: codec.TypeString, Value: "dark"},
			get:  func(c *preferences.Client) (any, error) { return c.GetString("theme", "") },
			want: "dark",
		},
		{
			name: "StringSet",
			row:  wire.Record{Type: codec.TypeStringSet, Value: codec.EncodeStringSet([]string{"a;b", "c"})},
			get:  func(c *preferences.Client) (any, error) { return c.GetStringSet("tags", nil) },
			want: []string{"a;b", "c"},
		},
		{
			name: "Int",
			row:  wire.Record{Type: codec.TypeInt, Value: "42"},
			get:  func(c *preferences.Client) (any, error) { return c.GetInt("launches", 0) },
			want: int32(42),
		},
		{
			name: "Int64",
			row:  wire.Record{Type: codec.TypeInt64, Value: "1099511627776"},
			get:  func(c *preferences.Client) (any, error) { return c.GetInt64("bytes", 0) },
			want: int64(1 << 40),
		},
		{
			name: "Float",
			row:  wire.Record{Type: codec.TypeFloat, Value: codec.EncodeFloat(1.5)},
			get:  func(c *preferences.Client) (any, error) { return c.GetFloat("scale", 0) },
			want: float32(1.5),
		},
		{
			name: "Bool",
			row:  wire.Record{Type: codec.TypeBool, Value: "1"},
			get:  func(c *preferences.Client) (any, error) { return c.GetBool("enabled", false) },
			want: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mock := newQueryMock(t, hostmock.Expectation{Response: queryRows(tc.row)})
			client := newClient(t, false, mock.HostCall)

			got, err := tc.get(client)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected value: got %v (%T), want %v (%T)", got, got, tc.want, tc.want)
			}
		})
	}
}

func TestGetDefaults(t *testing.T) {
	tt := []struct {
		name     string
		response func() []byte
	}{
		{name: "No Matching Record", response: queryRows()},
		{name: "Null Record", response: queryRows(wire.Record{Type: codec.TypeNull})},
		{
			name: "Missing Status",
			response: func() []byte {
				b, _ := wire.Marshal(wire.QueryResponse{Status: wire.Status{Status: "NotFound", Code: wire.StatusMissing}})
				return b
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mock := newQueryMock(t, hostmock.Expectation{Response: tc.response})
			client := newClient(t, true, mock.HostCall)

			got, err := client.GetString("missing", "fallback")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "fallback" {
				t.Fatalf("expected default, got %q", got)
			}
		})
	}
}

func TestTypeMismatchIsModeIndependent(t *testing.T) {
	for _, strict := range []bool{false, true} {
		t.Run(fmt.Sprintf("strict=%v", strict), func(t *testing.T) {
			mock := newQueryMock(t, hostmock.Expectation{
				Response: queryRows(wire.Record{Type: codec.TypeInt, Value: "7"}),
			})
			client := newClient(t, strict, mock.HostCall)

			if _, err := client.GetString("counter", ""); !errors.Is(err, preferences.ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
		})
	}
}

func TestEmptyKeyIsAlwaysAnError(t *testing.T) {
	mock := newQueryMock(t, hostmock.Expectation{Response: queryRows()})
	client := newClient(t, false, mock.HostCall)

	if _, err := client.GetString("", "def"); !errors.Is(err, preferences.ErrKeyEmpty) {
		t.Fatalf("expected ErrKeyEmpty from getter, got %v", err)
	}
	if _, err := client.Contains(""); !errors.Is(err, preferences.ErrKeyEmpty) {
		t.Fatalf("expected ErrKeyEmpty from Contains, got %v", err)
	}
	if len(mock.Calls) != 0 {
		t.Fatalf("argument errors must be raised before any host call, got %d calls", len(mock.Calls))
	}
}

func TestUnreachableService(t *testing.T) {
	hostErr := errors.New("service unavailable")

	t.Run("Lenient", func(t *testing.T) {
		mock := newQueryMock(t, hostmock.Expectation{Fail: true, Error: hostErr})
		client := newClient(t, false, mock.HostCall)

		got, err := client.GetInt("k", 5)
		if err != nil {
			t.Fatalf("lenient mode must not surface access errors, got %v", err)
		}
		if got != 5 {
			t.Fatalf("expected default 5, got %d", got)
		}

		exists, err := client.Contains("k")
		if err != nil || exists {
			t.Fatalf("expected (false, nil), got (%v, %v)", exists, err)
		}

		all, err := client.GetAll()
		if err != nil || len(all) != 0 {
			t.Fatalf("expected empty map, got (%v, %v)", all, err)
		}
	})

	t.Run("Strict", func(t *testing.T) {
		mock := newQueryMock(t, hostmock.Expectation{Fail: true, Error: hostErr})
		client := newClient(t, true, mock.HostCall)

		if _, err := client.GetInt("k", 5); !errors.Is(err, sdk.ErrHostCall) {
			t.Fatalf("expected ErrHostCall, got %v", err)
		}
		if _, err := client.Contains("k"); !errors.Is(err, sdk.ErrHostCall) {
			t.Fatalf("expected ErrHostCall, got %v", err)
		}
		if _, err := client.GetAll(); !errors.Is(err, sdk.ErrHostCall) {
			t.Fatalf("expected ErrHostCall, got %v", err)
		}
	})
}

func TestMalformedResponse(t *testing.T) {
	malformed := hostmock.Expectation{Response: func() []byte { return []byte("not json") }}

	t.Run("Lenient", func(t *testing.T) {
		mock := newQueryMock(t, malformed)
		client := newClient(t, false, mock.HostCall)

		got, err := client.GetString("k", "def")
		if err != nil || got != "def" {
			t.Fatalf("expected (def, nil), got (%q, %v)", got, err)
		}
	})

	t.Run("Strict", func(t *testing.T) {
		mock := newQueryMock(t, malformed)
		client := newClient(t, true, mock.HostCall)

		if _, err := client.GetString("k", "def"); !errors.Is(err, sdk.ErrHostResponseInvalid) {
			t.Fatalf("expected ErrHostResponseInvalid, got %v", err)
		}
	})
}

func TestQueryRequestShape(t *testing.T) {
	t.Run("Single Key", func(t *testing.T) {
		mock := newQueryMock(t, hostmock.Expectation{
			PayloadValidator: func(payload []byte) error {
				var req wire.QueryRequest
				if err := wire.Unmarshal(payload, &req); err != nil {
					return err
				}
				want := wire.Address{Service: testService, Set: testSet, Key: "theme"}.String()
				if req.Address != want {
					return fmt.Errorf("unexpected address %q", req.Address)
				}
				if !reflect.DeepEqual(req.Columns, []string{wire.ColumnType, wire.ColumnValue}) {
					return fmt.Errorf("unexpected columns %v", req.Columns)
				}
				return nil
			},
			Response: queryRows(wire.Record{Type: codec.TypeString, Value: "x"}),
		})
		client := newClient(t, true, mock.HostCall)

		if _, err := client.GetString("theme", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Contains Requests Type Only", func(t *testing.T) {
		mock := newQueryMock(t, hostmock.Expectation{
			PayloadValidator: func(payload []byte) error {
				var req wire.QueryRequest
				if err := wire.Unmarshal(payload, &req); err != nil {
					return err
				}
				if !reflect.DeepEqual(req.Columns, []string{wire.ColumnType}) {
					return fmt.Errorf("unexpected columns %v", req.Columns)
				}
				return nil
			},
			Response: queryRows(wire.Record{Type: codec.TypeString}),
		})
		client := newClient(t, true, mock.HostCall)

		exists, err := client.Contains("theme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Fatal("expected key to exist")
		}
	})

	t.Run("GetAll Uses Base Address", func(t *testing.T) {
		mock := newQueryMock(t, hostmock.Expectation{
			PayloadValidator: func(payload []byte) error {
				var req wire.QueryRequest
				if err := wire.Unmarshal(payload, &req); err != nil {
					return err
				}
				want := wire.Address{Service: testService, Set: testSet}.String()
				if req.Address != want {
					return fmt.Errorf("unexpected address %q", req.Address)
				}
				return nil
			},
			Response: queryRows(
				wire.Record{Key: "a", Type: codec.TypeString, Value: "x"},
				wire.Record{Key: "b", Type: codec.TypeInt, Value: "1"},
			),
		})
		client := newClient(t, true, mock.HostCall)

		all, err := client.GetAll()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[string]any{"a": "x", "b": int32(1)}
		if !reflect.DeepEqual(all, want) {
			t.Fatalf("unexpected mapping: got %v, want %v", all, want)
		}
	})
}

func TestContainsNullRecord(t *testing.T) {
	mock := newQueryMock(t, hostmock.Expectation{Response: queryRows(wire.Record{Type: codec.TypeNull})})
	client := newClient(t, true, mock.HostCall)

	exists, err := client.Contains("tombstone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("null records must not count as present")
	}
}
