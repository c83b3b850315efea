/*
Package wire defines the request/response protocol spoken with the remote
preference service: the capability and function names, the JSON envelopes
for query, delete, bulk insert, and subscription management, the status
codes, and the service/set/key address scheme.

The transport itself is a waPC host call; everything in this package is
transport-agnostic data. Tests substitute the host call with mocks and speak
the same envelopes.
*/
package wire
