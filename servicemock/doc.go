/*
Package servicemock provides an in-memory preference service for testing
code that depends on the preferences client without a real host.

The mock implements the full wire protocol behind a HostCall-compatible
entry point: typed records per set, single-record and whole-set queries,
the whole-set delete sentinel, bulk inserts, and subscriptions with change
events pushed back into the guest's notify handler. You can pre-seed data,
inject per-function failures to exercise lenient and strict access modes,
and inspect the recorded call history.

# Basic usage

	svc := servicemock.New(servicemock.Config{})
	router := sdk.NewRouter()
	svc.Connect(router.HandleNotify)

	prefs, _ := preferences.New(preferences.Config{
		ServiceAddress: "svc",
		SetName:        "main",
		HostCall:       svc.HostCall,
		Events:         router,
	})

# Failure injection

	svc.FailWith(wire.FnQuery, errors.New("service unavailable"))

Calls made while a failure is configured never reach the store, matching an
unreachable or permission-denied service from the client's point of view.
*/
package servicemock
