/*
Package hostmock provides a friendly pretend host for waPC calls.

It's designed for tests that want to validate exactly what a component sends
to the preference service without a real host running. Expectations are
registered per host function, so multi-call flows such as a batch commit
(deletes followed by a bulk insert) can be scripted in one mock.

Why use hostmock?

  - Validate routing: ensure calls use the expected namespace, capability, and function.
  - Inspect payloads: plug in a PayloadValidator to assert wire envelope contents.
  - Script responses: return custom bytes or simulate failures per function.
  - Replay history: every invocation is recorded in Calls for ordering assertions.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "remoteprefs",
	  ExpectedCapability: "preferences",
	  Functions: map[string]hostmock.Expectation{
	    "query": {
	      PayloadValidator: func(p []byte) error {
	        // Unmarshal and assert fields here
	        return nil
	      },
	      Response: func() []byte { return []byte("ok") },
	    },
	  },
	})

	// Inject into a component under test
	resp, err := m.HostCall("remoteprefs", "preferences", "query", []byte("payload"))

Behavior

  - Calls to a function with no Expectation entry fail with ErrUnexpectedFunction.
  - If an expectation sets Fail with an Error, HostCall returns that error; Fail
    without an Error returns ErrOperationFailed.
  - Otherwise HostCall enforces ExpectedNamespace/Capability, runs the
    PayloadValidator when provided, and returns the Response bytes (or nil).

Prefer servicemock for stateful end-to-end flows; reach for hostmock when you
need wire-level checks or precise failure injection.
*/
package hostmock
