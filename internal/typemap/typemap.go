// Package typemap converts schema nodes into Rust type signatures.
//
// MapType is the only place type signatures are produced; the emitters call it
// whenever they need to declare or cast a value.
package typemap

import (
	"strings"

	"github.com/mark3labs/reqsnip/internal/naming"
	"github.com/mark3labs/reqsnip/internal/spec"
)

const (
	// Unit is emitted for absent schemas and anything that cannot be typed.
	Unit = "()"
	// OpaqueObject is the marker type for objects without additionalProperties.
	OpaqueObject = "Object"
)

// Wrapper is the generic type optional values are wrapped in.
type Wrapper string

const (
	StdOption Wrapper = "Option"
	// ABIOption is the FFI-safe optional of abi_stable.
	ABIOption Wrapper = "ROption"
)

// Wrap applies w to an already mapped type.
func (w Wrapper) Wrap(t string) string { return string(w) + "<" + t + ">" }

// Fragment is generated source text that is already escaped and can be
// spliced into a template verbatim.
type Fragment string

func (f Fragment) String() string { return string(f) }

var formatTypes = map[string]string{
	"int32":     "i32",
	"int64":     "i64",
	"float":     "f32",
	"double":    "f64",
	"date":      "chrono::naive::NaiveDate",
	"date-time": "chrono::DateTime<chrono::Utc>",
	"byte":      "String",
	"binary":    "String",
	"string":    "String",
}

var kindTypes = map[string]string{
	"integer": "i64",
	"number":  "f64",
	"boolean": "bool",
	"string":  "String",
}

// MapType returns the Rust type for s. Optional values are wrapped in
// Option<..> at every level except array elements, which are always typed as
// required. A nil schema maps to the unit type.
func MapType(s *spec.Schema, required bool) string {
	return MapTypeAs(s, required, StdOption)
}

// MapTypeAs is MapType with optional values wrapped in w.
func MapTypeAs(s *spec.Schema, required bool, w Wrapper) string {
	if s == nil {
		return Unit
	}
	if s.Kind() == spec.KindReference {
		return wrap(naming.TypeName(s.RefName()), required, w)
	}
	if s.Format != "" {
		t, ok := formatTypes[s.Format]
		if !ok {
			t = Unit
		}
		return wrap(t, required, w)
	}
	if t, ok := kindTypes[s.Type]; ok {
		return wrap(t, required, w)
	}
	switch s.Kind() {
	case spec.KindArray:
		return wrap("Vec<"+MapTypeAs(s.Items, true, w)+">", required, w)
	case spec.KindObject:
		if s.AdditionalProperties != nil {
			return wrap("HashMap<String, "+MapTypeAs(s.AdditionalProperties, required, w)+">", required, w)
		}
		return wrap(OpaqueObject, required, w)
	}
	return Unit
}

// Safe is MapTypeAs returned as a Fragment, ready for splicing.
func Safe(s *spec.Schema, required bool, w Wrapper) Fragment {
	return Fragment(MapTypeAs(s, required, w))
}

// Optional wraps an already mapped type in Option<..>.
func Optional(t string) string { return StdOption.Wrap(t) }

// IsOptional reports whether t is an Option<..> or ROption<..> signature.
func IsOptional(t string) bool {
	for _, w := range []Wrapper{StdOption, ABIOption} {
		if len(t) > len(w)+2 && strings.HasPrefix(t, string(w)+"<") && strings.HasSuffix(t, ">") {
			return true
		}
	}
	return false
}

func wrap(t string, required bool, w Wrapper) string {
	if required {
		return t
	}
	return w.Wrap(t)
}
