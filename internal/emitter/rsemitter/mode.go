package rsemitter

import (
	"fmt"
	"strings"

	"github.com/mark3labs/reqsnip/internal/typemap"
)

// Mode selects the idioms used for optional values in emitted code.
//
// Standard targets ordinary Rust (Option / Some). ForeignSafe targets code
// compiled behind an abi_stable C-ABI boundary, where optionals cross as
// ROption and are unwrapped with RSome. The mode is always passed per call.
type Mode int

const (
	Standard Mode = iota
	ForeignSafe
)

func (m Mode) String() string {
	if m == ForeignSafe {
		return "foreign-safe"
	}
	return "standard"
}

// ParseMode accepts "standard" (the default for an empty string) and
// "ffi" / "cabi" / "foreign-safe" for ForeignSafe.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "std":
		return Standard, nil
	case "ffi", "cabi", "foreign-safe", "foreignsafe":
		return ForeignSafe, nil
	}
	return Standard, fmt.Errorf("unknown generation mode %q (allowed: standard, ffi)", s)
}

// wrapper is the optional type parameters are declared with.
func (m Mode) wrapper() typemap.Wrapper {
	if m == ForeignSafe {
		return typemap.ABIOption
	}
	return typemap.StdOption
}

// asStdOption converts a reference to an optional into a std Option<&T>.
func (m Mode) asStdOption(expr string) string {
	if m == ForeignSafe {
		return expr + ".as_ref().into_option()"
	}
	return expr + ".as_ref()"
}

// some is the constructor pattern used to unwrap an optional.
func (m Mode) some() string {
	if m == ForeignSafe {
		return "RSome"
	}
	return "Some"
}

// guard wraps body in a presence check that rebinds expr as binding.
func (m Mode) guard(binding, expr, body string) string {
	return "if let " + m.some() + "(" + binding + ") = &" + expr + " { " + body + " }"
}

// orEmpty yields present when expr holds a value and an empty String otherwise.
func (m Mode) orEmpty(binding, expr, present string) string {
	return "{ if let " + m.some() + "(" + binding + ") = &" + expr + " { " + present + " } else { String::new() } }"
}
