/*
Package dispatch provides the serial event queue change notifications are
delivered on. Each preference client owns (or is handed) one queue, giving
deterministic single-goroutine delivery: callbacks for the same client run
one at a time in posting order, though they may interleave with calls other
goroutines make into the client itself.
*/
package dispatch
