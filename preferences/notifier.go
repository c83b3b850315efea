package preferences

import "github.com/Rijul-Ahuja/RemotePreferences/wire"

// Listener receives change notifications for a preference set.
type Listener interface {
	// PreferenceChanged is invoked on the client's dispatch queue after a
	// record under the set changes. key is empty when the change cannot be
	// attributed to a single record, such as after a clear.
	PreferenceChanged(prefs *Client, key string)
}

// RegisterListener subscribes l to changes under this client's set. Events
// fire for every change under the set, including edits made through this
// same client; the notification layer does not distinguish origin.
// Registering a listener that is already registered is a no-op.
func (c *Client) RegisterListener(l Listener) error {
	if l == nil {
		return ErrListenerNil
	}
	if c.events == nil {
		return ErrNoEventRouter
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if _, ok := c.listeners[l]; ok {
		return nil
	}

	handle, err := c.remoteSubscribe(c.baseAddress())
	if err != nil {
		return err
	}
	c.listeners[l] = handle
	c.events.Bind(handle, func(address string) { c.deliver(l, handle, address) })
	return nil
}

// UnregisterListener cancels l's subscription. Unregistering a listener that
// was never registered is a no-op. Once unregistered no further events fire
// for l, though an event already in flight may still be delivered.
func (c *Client) UnregisterListener(l Listener) error {
	if l == nil {
		return ErrListenerNil
	}

	c.mu.Lock()
	handle, ok := c.listeners[l]
	if ok {
		delete(c.listeners, l)
	}
	c.mu.Unlock()
	if !ok {
		return nil
	}

	c.events.Release(handle)
	if err := c.remoteUnsubscribe(handle); err != nil {
		return c.access(err)
	}
	return nil
}

// deliver routes one change event to its listener. An event for a listener
// that is no longer registered cancels the stale subscription instead; the
// cleanup is lazy, happening on the next event rather than eagerly.
func (c *Client) deliver(l Listener, handle, address string) {
	// The changed key is the event address's final segment; an event on the
	// base address itself means unspecified or multiple records.
	key, err := wire.KeyOf(address)
	if err != nil {
		c.log.Warn("preferences: dropping change event with invalid address " + address)
		return
	}

	c.mu.Lock()
	current, ok := c.listeners[l]
	c.mu.Unlock()
	if !ok || current != handle {
		c.events.Release(handle)
		if err := c.remoteUnsubscribe(handle); err != nil {
			c.log.Debug("preferences: stale subscription cleanup failed: " + err.Error())
		}
		return
	}

	c.queue.Post(func() { l.PreferenceChanged(c, key) })
}

// Close unregisters every listener, cancels their subscriptions, and stops
// the dispatch queue when the client owns it. A closed client must not be
// used further.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	listeners := c.listeners
	c.listeners = make(map[Listener]string)
	c.mu.Unlock()

	for _, handle := range listeners {
		if c.events != nil {
			c.events.Release(handle)
		}
		if err := c.remoteUnsubscribe(handle); err != nil {
			c.log.Debug("preferences: unsubscribe on close failed: " + err.Error())
		}
	}

	if c.ownQueue {
		c.queue.Stop()
	}
	return nil
}
