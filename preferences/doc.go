/*
Package preferences provides a typed key-value client for a preference set
owned by a remote service, reached through a narrow waPC request/response
channel.

A Client is bound to exactly one (service address, set name) pair for its
lifetime. Reads and existence checks are synchronous queries; writes go
through an Editor, which accumulates puts and removes and commits them as
one best-effort edit session. Change notifications are delivered
asynchronously to registered listeners, serialized on a per-client dispatch
queue.

# Access policy

Two error-handling modes govern reachability problems (service unreachable,
permission denied, malformed response). In lenient mode, the default, such
failures degrade to each operation's semantic default: getters return the
caller's default value, GetAll returns an empty map, Contains returns false,
and Commit returns false. In strict mode the failure is returned at the call
that detected it. Type mismatches and empty keys are caller bugs and are
returned in both modes.

# Edit sessions

	prefs, err := preferences.New(preferences.Config{
		ServiceAddress: "com.example.app",
		SetName:        "main",
	})
	if err != nil {
		// handle
	}

	ok, err := prefs.Edit().
		PutString("theme", "dark").
		PutInt("launches", 42).
		Remove("legacy").
		Commit()

Commit issues removals first, one delete per key in call order, then submits
every put as a single bulk insert. The removal phase is intentionally not
atomic: a failure mid-phase leaves earlier removals applied. Editors are
single use.

# Notifications

Listeners registered with RegisterListener receive every change under the
set, including changes made by this same client. Callbacks run one at a time
on the client's dispatch queue. UnregisterListener cancels the underlying
subscription; events for subscriptions that lost their listener are cleaned
up lazily when the next event arrives.
*/
package preferences
