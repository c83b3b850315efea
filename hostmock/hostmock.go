package hostmock

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when no expectation exists for the called function.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Expectation configures the mock behavior for a single host function.
type Expectation struct {
	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Error is the error to return if the expectation is configured to fail.
	Error error

	// Fail indicates whether calls to this function should return an error.
	Fail bool
}

// Call records one host invocation for later assertions.
type Call struct {
	Function string
	Payload  []byte
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in host calls.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in host calls.
	ExpectedCapability string

	// Functions maps host function names to their configured behavior.
	// Calls to a function without an entry fail with ErrUnexpectedFunction.
	Functions map[string]Expectation
}

// Mock simulates a host call interface with validation and configurable
// per-function responses, so multi-call flows such as a batch commit can be
// scripted end to end.
type Mock struct {
	expectedNamespace  string
	expectedCapability string
	functions          map[string]Expectation

	mu sync.Mutex
	// Calls stores a history of host invocations for assertions.
	Calls []Call
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	functions := make(map[string]Expectation, len(config.Functions))
	for name, exp := range config.Functions {
		functions[name] = exp
	}
	return &Mock{
		expectedNamespace:  config.ExpectedNamespace,
		expectedCapability: config.ExpectedCapability,
		functions:          functions,
	}, nil
}

// HostCall simulates a host call, validating inputs and returning the
// response or error configured for the invoked function.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, Call{Function: function, Payload: append([]byte(nil), payload...)})
	m.mu.Unlock()

	// Validate namespace
	if m.expectedNamespace != namespace {
		return nil, fmt.Errorf(
			"%w: expected namespace %s, got %s",
			ErrUnexpectedNamespace,
			m.expectedNamespace,
			namespace,
		)
	}

	// Validate capability
	if m.expectedCapability != capability {
		return nil, fmt.Errorf(
			"%w: expected capability %s, got %s",
			ErrUnexpectedCapability,
			m.expectedCapability,
			capability,
		)
	}

	exp, ok := m.functions[function]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFunction, function)
	}

	// Return user-defined error if Fail is set
	if exp.Fail && exp.Error != nil {
		return nil, exp.Error
	}

	// Return default error if Fail is set but no custom error is provided
	if exp.Fail {
		return nil, ErrOperationFailed
	}

	// Validate payload using user-defined validator, if provided
	if exp.PayloadValidator != nil {
		if err := exp.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	// Return user-defined response if provided
	if exp.Response != nil {
		return exp.Response(), nil
	}

	// Default to no response
	return nil, nil
}
