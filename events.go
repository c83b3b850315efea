package sdk

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

// EventHandler receives the address of a changed preference record.
type EventHandler func(address string)

// Router maps subscription handles to the handler that should receive their
// change events. One Router serves every preference client created from the
// same SDK instance; handlers for different clients may run concurrently,
// serialization happens on each client's own dispatch queue.
type Router struct {
	targets *xsync.MapOf[string, EventHandler]

	// OnOrphan, when set, is invoked with the handle of an event that no
	// handler is bound to. The SDK uses it to cancel stale subscriptions
	// lazily, on the next event rather than eagerly.
	OnOrphan func(handle string)
}

// NewRouter creates an empty notification router.
func NewRouter() *Router {
	return &Router{targets: xsync.NewMapOf[string, EventHandler]()}
}

// Bind routes events for handle to fn, replacing any previous binding.
func (r *Router) Bind(handle string, fn EventHandler) {
	r.targets.Store(handle, fn)
}

// Release removes the binding for handle. Releasing an unknown handle is a
// no-op.
func (r *Router) Release(handle string) {
	r.targets.Delete(handle)
}

// HandleNotify is the waPC entry point for change events pushed by the
// preference service. The payload is a wire.Event naming the subscription
// handle and the changed address.
func (r *Router) HandleNotify(payload []byte) ([]byte, error) {
	var ev wire.Event
	if err := wire.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostResponseInvalid, err)
	}

	if fn, ok := r.targets.Load(ev.Handle); ok {
		fn(ev.Address)
		return nil, nil
	}

	if r.OnOrphan != nil {
		r.OnOrphan(ev.Handle)
	}
	return nil, nil
}
