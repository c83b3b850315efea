package preferences

import "errors"

var (
	// ErrKeyEmpty is returned for an empty preference key. Real keys are
	// never empty; the empty string is reserved as the whole-set sentinel
	// used internally by Clear.
	ErrKeyEmpty = errors.New("key is empty")

	// ErrTypeMismatch is returned when a stored record's type tag differs
	// from the type a getter requested. It always signals a caller bug,
	// never absence of data, so it is independent of strict mode.
	ErrTypeMismatch = errors.New("stored type does not match requested type")

	// ErrNoServiceAddress is returned by New when the service address is missing.
	ErrNoServiceAddress = errors.New("service address is required")

	// ErrNoSetName is returned by New when the preference set name is missing.
	ErrNoSetName = errors.New("set name is required")

	// ErrListenerNil is returned when a nil listener is passed to
	// RegisterListener or UnregisterListener.
	ErrListenerNil = errors.New("listener cannot be nil")

	// ErrNoEventRouter is returned by RegisterListener when the client was
	// built without an event router to receive notifications on.
	ErrNoEventRouter = errors.New("listener registration requires an event router")

	// ErrEditorCommitted is returned by Commit on an editor that was
	// already committed. Editors are single use.
	ErrEditorCommitted = errors.New("editor already committed")

	// ErrClientClosed is returned for operations on a closed client.
	ErrClientClosed = errors.New("client is closed")
)
