package rsemitter

import (
	"fmt"
	"strings"

	"github.com/mark3labs/reqsnip/internal/naming"
	"github.com/mark3labs/reqsnip/internal/spec"
)

// shape is how a value is serialized, independent of its Rust type.
type shape int

const (
	shapeScalar shape = iota
	shapeArray
	shapeObject // named properties
	shapeMap    // additionalProperties only
)

func shapeOf(s *spec.Schema) shape {
	switch s.Kind() {
	case spec.KindArray:
		return shapeArray
	case spec.KindObject:
		if len(s.Properties) > 0 {
			return shapeObject
		}
		if s.AdditionalProperties != nil {
			return shapeMap
		}
	}
	return shapeScalar
}

// locals are the names the emitted fragments declare or bind themselves.
var locals = map[string]bool{
	"query_params": true,
	"headers":      true,
	"cookies":      true,
	"el":           true,
	"k":            true,
	"v":            true,
}

// bindingName is the identifier a parameter or property value is bound to.
// Names colliding with a local get a trailing underscore.
func bindingName(raw string) string {
	name := naming.ParamName(raw)
	if locals[name] {
		return name + "_"
	}
	return name
}

// style holds the separators used when flattening a value into one string.
type style struct {
	elem string // between array elements and map entries
	kv   string // between a key and its value
	prop string // between object properties
}

var (
	// pathStyle percent-encodes every separator so a flattened value stays a
	// single path segment.
	pathStyle   = style{elem: "%2C", kv: "%2C", prop: "%2C"}
	headerStyle = style{elem: ",", kv: ",", prop: ";"}
)

// display returns a Rust expression of type String for the present value
// expr. optValues marks map values as Option-typed.
func display(m Mode, expr string, s *spec.Schema, st style, optValues bool) string {
	switch shapeOf(s) {
	case shapeArray:
		return expr + ".iter().map(|el| el.to_string()).collect::<Vec<_>>().join(" + lit(st.elem) + ")"
	case shapeMap:
		entry := "format!(" + lit("{}"+escBraces(st.kv)+"{}") + ", k, v)"
		if optValues {
			return expr + ".iter().filter_map(|(k, v)| " + m.asStdOption("v") + ".map(|v| " + entry + ")).collect::<Vec<_>>().join(" + lit(st.elem) + ")"
		}
		return expr + ".iter().map(|(k, v)| " + entry + ").collect::<Vec<_>>().join(" + lit(st.elem) + ")"
	case shapeObject:
		return flattenObject(m, expr, s, st)
	}
	return expr + ".to_string()"
}

// flattenObject renders name<kv>value pairs joined by st.prop with no
// trailing separator. Nested values are not dereferenced further.
func flattenObject(m Mode, expr string, s *spec.Schema, st style) string {
	var layout strings.Builder
	args := make([]string, 0, len(s.Properties))
	for i, p := range s.Properties {
		if i > 0 {
			layout.WriteString(escBraces(st.prop))
		}
		layout.WriteString(escBraces(p.Name+st.kv) + "{}")
		field := expr + "." + naming.ParamName(p.Name)
		if p.Required {
			args = append(args, display(m, field, p.Schema, st, false))
		} else {
			args = append(args, m.orEmpty("v", field, display(m, "v", p.Schema, st, false)))
		}
	}
	return "format!(" + lit(layout.String()) + ", " + strings.Join(args, ", ") + ")"
}

// lit quotes s as a Rust string literal.
func lit(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u{%x}`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escBraces doubles braces so s is taken literally inside a format! string.
func escBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}
