package spec

import "strings"

// Internal model (IM) handed to the emitters. Everything here is built once per
// document by BuildServiceModel and treated as read-only afterwards.

type HttpMethod string

const (
	GET     HttpMethod = "get"
	POST    HttpMethod = "post"
	PUT     HttpMethod = "put"
	DELETE  HttpMethod = "delete"
	PATCH   HttpMethod = "patch"
	HEAD    HttpMethod = "head"
	OPTIONS HttpMethod = "options"
	TRACE   HttpMethod = "trace"
)

// Location is where a parameter travels in the HTTP request.
type Location string

const (
	InPath   Location = "path"
	InQuery  Location = "query"
	InHeader Location = "header"
	InCookie Location = "cookie"
)

type ServiceModel struct {
	Title      string
	Version    string
	Servers    []Server
	Tags       []string
	Operations []OperationModel
	Types      TypeTable
}

type Server struct {
	URL         string
	Description string
}

type OperationModel struct {
	ID         string // operationId, or "method path" when absent
	Method     HttpMethod
	Path       string
	Summary    string
	Tags       []string
	Parameters []ParameterSpec
}

// ParameterSpec is one declared operation parameter. Identity is (Name, In).
type ParameterSpec struct {
	Name     string
	In       Location
	Required bool
	Schema   *Schema
	// HasContentMediaType marks parameters declared with `content` instead of
	// `schema`. The header emitter skips them.
	HasContentMediaType bool
}

// Kind discriminates the Schema variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindPrimitive
	KindArray
	KindObject
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Schema is a tagged variant over reference, primitive, array and object
// nodes. Only the fields relevant to Kind() are meaningful.
type Schema struct {
	Ref    string // reference target, bare name or JSON pointer
	Type   string // string|integer|number|boolean|array|object
	Format string

	Items                *Schema
	Properties           []Property // declaration order
	AdditionalProperties *Schema
}

// Property is a named member of an object schema. Required is the property's
// own flag, independent of the enclosing parameter's.
type Property struct {
	Name     string
	Required bool
	Schema   *Schema
}

// Kind reports which variant s holds. A nil schema is KindUnknown.
func (s *Schema) Kind() Kind {
	if s == nil {
		return KindUnknown
	}
	if s.Ref != "" {
		return KindReference
	}
	switch s.Type {
	case "string", "integer", "number", "boolean":
		return KindPrimitive
	case "array":
		return KindArray
	case "object":
		return KindObject
	}
	switch {
	case len(s.Properties) > 0 || s.AdditionalProperties != nil:
		return KindObject
	case s.Items != nil:
		return KindArray
	}
	return KindUnknown
}

// RefName returns the last path segment of the reference target.
func (s *Schema) RefName() string {
	if s == nil {
		return ""
	}
	ref := s.Ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return ref
}

// Ref builds a reference node.
func Ref(target string) *Schema { return &Schema{Ref: target} }

// Primitive builds a primitive node with an optional format.
func Primitive(typ, format string) *Schema { return &Schema{Type: typ, Format: format} }

// ArrayOf builds an array node.
func ArrayOf(items *Schema) *Schema { return &Schema{Type: "array", Items: items} }

// ObjectOf builds an object node with ordered properties.
func ObjectOf(props ...Property) *Schema { return &Schema{Type: "object", Properties: props} }

// MapOf builds an object node whose values are all of schema values.
func MapOf(values *Schema) *Schema { return &Schema{Type: "object", AdditionalProperties: values} }

// TypeTable holds the named schemas of a document.
type TypeTable map[string]*Schema

// Deref follows a reference node exactly one step. Non-reference nodes,
// unknown names and references to further references come back unchanged, so
// cyclic schemas can never loop.
func (t TypeTable) Deref(s *Schema) *Schema {
	if s.Kind() != KindReference || t == nil {
		return s
	}
	target, ok := t[s.RefName()]
	if !ok || target == nil || target.Kind() == KindReference {
		return s
	}
	return target
}
