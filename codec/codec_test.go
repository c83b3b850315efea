package codec

import (
	"errors"
	"reflect"
	"testing"
)

func TestStringSetRoundTrip(t *testing.T) {
	tt := []struct {
		name string
		set  []string
	}{
		{"Empty", []string{}},
		{"SingleMember", []string{"alpha"}},
		{"MultipleMembers", []string{"alpha", "beta", "gamma"}},
		{"EmptyMember", []string{""}},
		{"EmptyAmongOthers", []string{"a", "", "b"}},
		{"MemberWithDelimiter", []string{"a;b", "c"}},
		{"MemberWithEscape", []string{`a\b`}},
		{"MemberWithBoth", []string{`a\;b`, `\\`, ";;"}},
		{"DelimiterOnly", []string{";"}},
		{"EscapeOnly", []string{`\`}},
		{"Unicode", []string{"héllo", "wörld;"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			encoded := EncodeStringSet(tc.set)
			decoded, err := DecodeStringSet(encoded)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tc.set) {
				t.Fatalf("round trip mismatch: want %q, got %q (encoded %q)", tc.set, decoded, encoded)
			}
		})
	}
}

func TestStringSetEncodingInjective(t *testing.T) {
	// These pairs would collide under naive joining without escaping.
	pairs := [][2][]string{
		{{"a;b"}, {"a", "b"}},
		{{";"}, {"", ""}},
		{{`a\`, "b"}, {`a\;b`}},
	}

	for _, pair := range pairs {
		if EncodeStringSet(pair[0]) == EncodeStringSet(pair[1]) {
			t.Fatalf("sets %q and %q share encoding %q", pair[0], pair[1], EncodeStringSet(pair[0]))
		}
	}
}

func TestDecodeStringSetCorrupt(t *testing.T) {
	tt := []struct {
		name  string
		input string
	}{
		{"UnterminatedMember", "abc"},
		{"UnterminatedEscape", `abc;x\`},
		{"TrailingMember", "a;b"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeStringSet(tc.input); !errors.Is(err, ErrValueCorrupt) {
				t.Fatalf("expected ErrValueCorrupt, got %v", err)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	tt := []struct {
		name    string
		typ     Type
		encoded string
		want    any
	}{
		{"String", TypeString, EncodeString("hello"), "hello"},
		{"EmptyString", TypeString, EncodeString(""), ""},
		{"Int", TypeInt, EncodeInt(-42), int32(-42)},
		{"IntMax", TypeInt, EncodeInt(1<<31 - 1), int32(1<<31 - 1)},
		{"Int64", TypeInt64, EncodeInt64(1 << 40), int64(1 << 40)},
		{"Float", TypeFloat, EncodeFloat(3.25), float32(3.25)},
		{"FloatTiny", TypeFloat, EncodeFloat(1.5e-30), float32(1.5e-30)},
		{"BoolTrue", TypeBool, EncodeBool(true), true},
		{"BoolFalse", TypeBool, EncodeBool(false), false},
		{"StringSet", TypeStringSet, EncodeStringSet([]string{"x", "y;z"}), []string{"x", "y;z"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.typ, tc.encoded)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %v (%T), got %v (%T)", tc.want, tc.want, got, got)
			}
		})
	}
}

func TestDecodeCorruptValues(t *testing.T) {
	tt := []struct {
		name    string
		typ     Type
		encoded string
	}{
		{"IntNotANumber", TypeInt, "abc"},
		{"IntOverflow", TypeInt, "4294967296"},
		{"Int64NotANumber", TypeInt64, "12x"},
		{"FloatNotANumber", TypeFloat, "NaNny"},
		{"BoolNotANumber", TypeBool, "true"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.typ, tc.encoded); !errors.Is(err, ErrValueCorrupt) {
				t.Fatalf("expected ErrValueCorrupt, got %v", err)
			}
		})
	}
}

func TestDecodeInvalidTagPanics(t *testing.T) {
	tt := []struct {
		name string
		typ  Type
	}{
		{"Null", TypeNull},
		{"OutOfRange", Type(99)},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for tag %v", tc.typ)
				}
			}()
			_, _ = Decode(tc.typ, "whatever")
		})
	}
}

func TestTypeString(t *testing.T) {
	if TypeStringSet.String() != "string set" {
		t.Fatalf("unexpected name %q", TypeStringSet.String())
	}
	if Type(99).String() != "type(99)" {
		t.Fatalf("unexpected name %q", Type(99).String())
	}
}
