/*
Package codec converts the six supported preference value kinds to and from
their transport-safe string representation.

Every stored record carries a type tag alongside the encoded value; the tag
drives decoding and lets readers detect type-mismatched access. String sets
are flattened into a single delimited string with an escaping scheme that
makes the encoding injective, so any set of strings round-trips exactly,
including members that contain the delimiter or escape character.

Decoding an unknown type tag panics. A tag outside the supported range can
only appear through data corruption or a misbehaving service, never through
normal use, so it is treated as fatal rather than translated into a
recoverable error.
*/
package codec
