package validator

import (
	"strings"
	"unicode/utf16"
)

// Value is the value a rule judges: a string, or absent when a checkbox or
// radio group has no checked option. Absent differs from the empty string.
type Value struct {
	text string
	set  bool
}

// NoValue is the absent value.
var NoValue = Value{}

// ValueOf returns a present value holding s.
func ValueOf(s string) Value {
	return Value{text: s, set: true}
}

// IsSet reports whether the value is present.
func (v Value) IsSet() bool { return v.set }

// String returns the text of the value, or "" when absent.
func (v Value) String() string { return v.text }

// Len returns the length of the value in UTF-16 code units, the length a
// browser reports for a field value. Characters outside the Basic
// Multilingual Plane count twice.
func (v Value) Len() int {
	n := 0
	for _, r := range v.text {
		n += utf16.RuneLen(r)
	}
	return n
}

// IsBlank reports whether the value is absent or only whitespace.
func (v Value) IsBlank() bool {
	return !v.set || strings.TrimSpace(v.text) == ""
}

// Equal reports whether both values are present and hold the same text.
func (v Value) Equal(other Value) bool {
	return v.set && other.set && v.text == other.text
}
