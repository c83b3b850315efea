package sdk

import "errors"

var (
	// ErrHostCall indicates that a waPC host invocation failed. This covers
	// an unreachable preference service as well as permission denials
	// surfaced by the transport.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the preference service returned a
	// malformed, empty, or otherwise unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the preference service completed the call but
	// reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)
