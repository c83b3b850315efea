/*
Package logging offers a client for emitting log entries to the host
runtime's logging capability.

The package exposes a small interface with convenience methods for common
log levels (Info, Warn, Error, Debug, Trace). A client instance handles the
host interaction behind the scenes; the preference client uses one for
best-effort diagnostics such as lenient-mode access failures and stale
subscription cleanup. Nop returns a silent implementation for callers that
do not want host logging.
*/
package logging
