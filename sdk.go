package sdk

import (
	wapc "github.com/wapc/wapc-guest-tinygo"

	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "remoteprefs"

// Config provides configuration options for SDK initialization.
type Config struct {
	// Namespace controls the capability namespace to use for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string

	// HostCall overrides the waPC host function used for subscription
	// cleanup when an orphaned change event arrives.
	HostCall wire.HostCall
}

// RuntimeConfig carries configuration that is used during creation of SDK components.
type RuntimeConfig struct {
	// Namespace is the capability namespace used to scope host interactions.
	Namespace string
}

// SDK represents the initialized runtime with the change-notification entry
// point registered.
type SDK struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig

	// router fans inbound change events out to the subscription that
	// created them.
	router *Router

	hostCall wire.HostCall
}

// New initializes the SDK and registers the notify handler with waPC. Change
// events delivered by the preference service are routed to the client bound
// to their subscription handle; events for handles no longer bound anywhere
// trigger a best-effort unsubscribe so the service stops sending them.
func New(config Config) (*SDK, error) {
	// Create runtime configuration with defaults
	cfg := RuntimeConfig{Namespace: DefaultNamespace}

	// Override defaults with provided configuration
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	// Create SDK instance
	s := &SDK{
		runtime:  cfg,
		router:   NewRouter(),
		hostCall: hostCall,
	}
	s.router.OnOrphan = s.cancelSubscription

	// Register the inbound notification entry point with waPC
	wapc.RegisterFunction(wire.FnNotify, s.router.HandleNotify)

	return s, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }

// Events returns the notification router shared by every client created from
// this SDK instance.
func (s *SDK) Events() *Router { return s.router }

// cancelSubscription drops a remote subscription that no longer has a bound
// handler. Failures are ignored; the service keeps delivering events for the
// handle and the next one retries the cleanup.
func (s *SDK) cancelSubscription(handle string) {
	payload, err := wire.Marshal(wire.UnsubscribeRequest{Handle: handle})
	if err != nil {
		return
	}
	_, _ = s.hostCall(s.runtime.Namespace, wire.CapabilityName, wire.FnUnsubscribe, payload)
}
