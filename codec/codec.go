package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type tags the kind of a stored preference value. The tag travels with the
// encoded value in every record so clients can detect mismatched reads.
type Type uint8

const (
	// TypeNull marks a record whose value is absent. Reads treat it the
	// same as a missing record.
	TypeNull Type = iota
	TypeString
	TypeStringSet
	TypeInt
	TypeInt64
	TypeFloat
	TypeBool
)

// String returns a human-readable tag name for error messages.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeStringSet:
		return "string set"
	case TypeInt:
		return "int"
	case TypeInt64:
		return "int64"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ErrValueCorrupt indicates an encoded value that does not parse under its
// own type tag.
var ErrValueCorrupt = errors.New("stored value is corrupt")

// String-set members are joined with a terminating delimiter; the delimiter
// and the escape character are escaped inside members so every distinct set
// has exactly one encoding.
const (
	setDelimiter = ';'
	setEscape    = '\\'
)

// EncodeString returns the transport representation of a string value.
func EncodeString(v string) string { return v }

// EncodeInt returns the transport representation of a 32-bit integer value.
func EncodeInt(v int32) string { return strconv.FormatInt(int64(v), 10) }

// EncodeInt64 returns the transport representation of a 64-bit integer value.
func EncodeInt64(v int64) string { return strconv.FormatInt(v, 10) }

// EncodeFloat returns the transport representation of a float value.
func EncodeFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// EncodeBool returns the transport representation of a boolean value.
func EncodeBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// EncodeStringSet serializes a set of strings into a single string. Each
// member is escaped and terminated with the delimiter, so members may
// contain the delimiter, the escape character, or be empty without
// colliding with any other set's encoding.
func EncodeStringSet(set []string) string {
	var sb strings.Builder
	for _, member := range set {
		for i := 0; i < len(member); i++ {
			c := member[i]
			if c == setDelimiter || c == setEscape {
				sb.WriteByte(setEscape)
			}
			sb.WriteByte(c)
		}
		sb.WriteByte(setDelimiter)
	}
	return sb.String()
}

// DecodeStringSet is the exact inverse of EncodeStringSet. Input that the
// encoder could not have produced yields ErrValueCorrupt.
func DecodeStringSet(s string) ([]string, error) {
	set := []string{}
	var member strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case setEscape:
			i++
			if i >= len(s) {
				return nil, fmt.Errorf("%w: unterminated escape in string set", ErrValueCorrupt)
			}
			member.WriteByte(s[i])
		case setDelimiter:
			set = append(set, member.String())
			member.Reset()
		default:
			member.WriteByte(s[i])
		}
	}
	if member.Len() != 0 {
		return nil, fmt.Errorf("%w: unterminated string set member", ErrValueCorrupt)
	}
	return set, nil
}

// Decode converts a transport representation back into its Go value. The
// returned value carries the concrete type associated with the tag: string,
// []string, int32, int64, float32, or bool.
//
// Decode panics on a tag it does not recognize, TypeNull included. Such a
// tag cannot come from a well-behaved service or this package's encoders, so
// it signals data corruption rather than a recoverable failure.
func Decode(t Type, value string) (any, error) {
	switch t {
	case TypeString:
		return value, nil
	case TypeStringSet:
		return DecodeStringSet(value)
	case TypeInt:
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a 32-bit integer", ErrValueCorrupt, value)
		}
		return int32(n), nil
	case TypeInt64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a 64-bit integer", ErrValueCorrupt, value)
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrValueCorrupt, value)
		}
		return float32(f), nil
	case TypeBool:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrValueCorrupt, value)
		}
		return n != 0, nil
	}
	panic(fmt.Sprintf("codec: invalid type tag %d", uint8(t)))
}
