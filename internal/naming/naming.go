// Package naming converts OpenAPI identifiers into Rust identifiers.
//
// ParamName produces snake_case binding names for parameters and fields,
// TypeName produces UpperCamelCase names for referenced schemas. Both are
// total: every input yields a usable identifier. Neither deduplicates; two
// raw names may map to the same identifier and callers that build a table of
// names must handle that themselves.
package naming

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fallbackParam is used when a raw name has no identifier characters at all.
const fallbackParam = "param"

// fallbackType is the TypeName counterpart of fallbackParam.
const fallbackType = "Unnamed"

// rustKeywords lists strict and reserved Rust keywords (2021 edition).
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"gen": true, "macro": true, "override": true, "priv": true, "try": true,
	"typeof": true, "unsized": true, "virtual": true, "yield": true,
}

// noRawForm are keywords that Rust refuses as raw identifiers (r#self is an error).
var noRawForm = map[string]bool{"self": true, "Self": true, "super": true, "crate": true}

// ParamName converts a raw parameter or property name into a snake_case Rust
// identifier.
//
// Characters outside [A-Za-z0-9_] are dropped, camel-case and digit
// boundaries become underscores, and keywords are escaped: "type" becomes
// "r#type", while "self", "super" and "crate" (which have no raw form) get a
// trailing underscore. ParamName is idempotent.
func ParamName(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "r#"); ok && rustKeywords[rest] && !noRawForm[rest] {
		return raw
	}
	name := snake(raw)
	if name == "" {
		return fallbackParam
	}
	if isDigit(name[0]) {
		name = "_" + name
	}
	return escapeKeyword(name)
}

// TypeName converts a schema name, or a reference such as
// "#/components/schemas/pet_store", into an UpperCamelCase Rust type name.
func TypeName(raw string) string {
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, word := range strings.FieldsFunc(raw, func(r rune) bool { return !isAlnum(r) }) {
		b.WriteString(title.String(word))
	}
	name := b.String()
	if name == "" {
		return fallbackType
	}
	if isDigit(name[0]) {
		name = "T" + name
	}
	if rustKeywords[name] {
		name += "_"
	}
	return name
}

// FileName snake-cases the base name of a generated file while keeping its
// extension, e.g. "PetStoreApi.rs" becomes "pet_store_api.rs".
func FileName(raw string) string {
	ext := path.Ext(raw)
	base := strings.TrimSuffix(raw, ext)
	name := snake(base)
	if name == "" {
		name = fallbackParam
	}
	return name + strings.ToLower(ext)
}

func escapeKeyword(name string) string {
	if !rustKeywords[name] {
		return name
	}
	if noRawForm[name] {
		return name + "_"
	}
	return "r#" + name
}

// snake lower-cases raw and inserts '_' at word boundaries. Leading, trailing
// and repeated underscores are removed.
func snake(raw string) string {
	src := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; isAlnum(rune(c)) || c == '_' {
			src = append(src, c)
		}
	}

	out := make([]byte, 0, len(src)+4)
	for i, c := range src {
		var last byte
		if len(out) > 0 {
			last = out[len(out)-1]
		}
		switch {
		case isUpper(c):
			if last != 0 && last != '_' {
				prev := src[i-1]
				nextLower := i+1 < len(src) && isLower(src[i+1])
				if isLower(prev) || isDigit(prev) || (isUpper(prev) && nextLower) {
					out = append(out, '_')
				}
			}
			out = append(out, c+('a'-'A'))
		case isDigit(c):
			if last != 0 && last != '_' && !isDigit(last) {
				out = append(out, '_')
			}
			out = append(out, c)
		case c == '_':
			if last != 0 && last != '_' {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return strings.TrimRight(string(out), "_")
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
