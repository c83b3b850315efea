package wire

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrAddressInvalid indicates an address that does not follow the
// service/set/key scheme.
var ErrAddressInvalid = errors.New("address is invalid")

// Address identifies a record or a whole set at the preference service:
// service/set/key, each segment percent-escaped. An empty Key produces the
// set's base address with a trailing empty segment; real keys are never
// empty, which is what makes the empty segment usable as the whole-set
// sentinel.
type Address struct {
	Service string
	Set     string
	Key     string
}

// String renders the address in its canonical escaped form.
func (a Address) String() string {
	return url.PathEscape(a.Service) + "/" + url.PathEscape(a.Set) + "/" + url.PathEscape(a.Key)
}

// ParseAddress is the inverse of Address.String.
func ParseAddress(s string) (Address, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Address{}, fmt.Errorf("%w: %q", ErrAddressInvalid, s)
	}

	var a Address
	var err error
	if a.Service, err = url.PathUnescape(parts[0]); err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrAddressInvalid, s, err)
	}
	if a.Set, err = url.PathUnescape(parts[1]); err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrAddressInvalid, s, err)
	}
	if a.Key, err = url.PathUnescape(parts[2]); err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrAddressInvalid, s, err)
	}
	return a, nil
}

// KeyOf extracts the key from a change-event address: the final segment,
// unescaped. An empty result means the event names the whole set rather
// than a single record.
func KeyOf(address string) (string, error) {
	idx := strings.LastIndexByte(address, '/')
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrAddressInvalid, address)
	}
	key, err := url.PathUnescape(address[idx+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrAddressInvalid, address, err)
	}
	return key, nil
}
