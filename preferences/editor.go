package preferences

import (
	"github.com/Rijul-Ahuja/RemotePreferences/codec"
	"github.com/Rijul-Ahuja/RemotePreferences/wire"
)

// Editor accumulates put and remove operations and commits them to the
// service as one edit session. Editors are single use: after Commit or Apply
// the instance must be discarded.
//
// Editors are not safe for concurrent use, but separate editors against the
// same set may commit concurrently; the service's own per-key ordering
// decides the outcome of racing commits.
type Editor struct {
	c         *Client
	puts      []wire.Record
	removals  []string
	cleared   bool
	committed bool
	err       error
}

// Edit begins a new edit session against the client's preference set.
func (c *Client) Edit() *Editor {
	return &Editor{c: c}
}

// put schedules one record. Argument errors are recorded and surfaced by
// Commit before any exchange with the service.
func (e *Editor) put(key string, t codec.Type, value string) *Editor {
	switch {
	case e.committed:
		// reported by the next Commit call
	case key == "":
		if e.err == nil {
			e.err = ErrKeyEmpty
		}
	default:
		e.puts = append(e.puts, wire.Record{Key: key, Type: t, Value: value})
	}
	return e
}

// PutString schedules storing a string value at key.
func (e *Editor) PutString(key, value string) *Editor {
	return e.put(key, codec.TypeString, codec.EncodeString(value))
}

// PutStringSet schedules storing a set of strings at key.
func (e *Editor) PutStringSet(key string, value []string) *Editor {
	return e.put(key, codec.TypeStringSet, codec.EncodeStringSet(value))
}

// PutInt schedules storing a 32-bit integer value at key.
func (e *Editor) PutInt(key string, value int32) *Editor {
	return e.put(key, codec.TypeInt, codec.EncodeInt(value))
}

// PutInt64 schedules storing a 64-bit integer value at key.
func (e *Editor) PutInt64(key string, value int64) *Editor {
	return e.put(key, codec.TypeInt64, codec.EncodeInt64(value))
}

// PutFloat schedules storing a float value at key.
func (e *Editor) PutFloat(key string, value float32) *Editor {
	return e.put(key, codec.TypeFloat, codec.EncodeFloat(value))
}

// PutBool schedules storing a boolean value at key.
func (e *Editor) PutBool(key string, value bool) *Editor {
	return e.put(key, codec.TypeBool, codec.EncodeBool(value))
}

// Remove schedules deletion of the record at key. Removals are issued before
// puts on Commit, in the order they were added.
func (e *Editor) Remove(key string) *Editor {
	switch {
	case e.committed:
	case key == "":
		if e.err == nil {
			e.err = ErrKeyEmpty
		}
	default:
		e.removals = append(e.removals, key)
	}
	return e
}

// Clear schedules deletion of every record in the set. Internally this is a
// removal of the reserved empty key, which addresses the whole set; repeated
// calls collapse into one.
func (e *Editor) Clear() *Editor {
	if e.committed || e.cleared {
		return e
	}
	e.cleared = true
	e.removals = append(e.removals, "")
	return e
}

// Commit sends the accumulated edit to the service and reports whether the
// whole edit took effect. Removals go first, each as an individual delete in
// call order; then every put is submitted as a single bulk insert.
//
// The edit is not atomic across the removal phase: if a removal fails, the
// removals before it have already taken effect remotely while everything
// after is abandoned. Only the put phase is one exchange. In lenient mode a
// reachability failure yields (false, nil); in strict mode the error is
// returned as well.
func (e *Editor) Commit() (bool, error) {
	if e.committed {
		return false, ErrEditorCommitted
	}
	e.committed = true
	if e.err != nil {
		return false, e.err
	}

	c := e.c
	for _, key := range e.removals {
		// The clear sentinel has an empty key, so its address is the
		// set's base address and the delete covers every record.
		if err := c.remoteDelete(c.keyAddress(key)); err != nil {
			return false, c.access(err)
		}
	}

	if err := c.remoteBulkInsert(c.baseAddress(), e.puts); err != nil {
		return false, c.access(err)
	}
	return true, nil
}

// Apply is Commit with the result discarded.
func (e *Editor) Apply() {
	_, _ = e.Commit()
}
