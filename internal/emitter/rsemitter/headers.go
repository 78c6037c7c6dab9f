package rsemitter

import (
	"strings"

	"github.com/mark3labs/reqsnip/internal/spec"
)

const (
	headersDecl = "let mut headers = reqwest::header::HeaderMap::new();"
	cookiesDecl = "let mut cookies: Vec<String> = Vec::new();"
	cookieName  = "reqwest::header::COOKIE"
	cookieSep   = ";"
)

// Headers returns statements building the headers map. The map declaration
// is always emitted so callers can rely on it being in scope.
//
// Cookie parameters are folded into a single Cookie header where each
// parameter contributes its own name=value fragment; absent optional cookies
// contribute nothing. Header and cookie parameters declared with a content
// media type are skipped. Only the simple, non-exploded serialization is supported:
// arrays join with ",", objects render as name,value pairs separated by ";".
func (e *Emitter) Headers(params []spec.ParameterSpec, mode Mode) Fragment {
	lines := []string{headersDecl}
	if c := e.cookies(params, mode); c != "" {
		lines = append(lines, c)
	}
	for _, p := range spec.ByLocation(params, spec.InHeader) {
		if p.HasContentMediaType {
			e.logger().Debug("skipping header parameter with content media type", "param", p.Name)
			continue
		}
		binding := bindingName(p.Name)
		stmt := insertHeader(lit(strings.ToLower(p.Name)), display(mode, binding, e.resolve(p), headerStyle, !p.Required))
		if !p.Required {
			stmt = mode.guard(binding, binding, stmt)
		}
		lines = append(lines, stmt)
	}
	return Fragment(strings.Join(lines, "\n"))
}

func (e *Emitter) cookies(params []spec.ParameterSpec, mode Mode) string {
	var stmts []string
	anyOptional := false
	for _, p := range spec.ByLocation(params, spec.InCookie) {
		if p.HasContentMediaType {
			e.logger().Debug("skipping cookie parameter with content media type", "param", p.Name)
			continue
		}
		binding := bindingName(p.Name)
		value := display(mode, binding, e.resolve(p), headerStyle, !p.Required)
		stmt := "cookies.push(format!(" + lit(escBraces(p.Name)+"={}") + ", " + value + "));"
		if !p.Required {
			anyOptional = true
			stmt = mode.guard(binding, binding, stmt)
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return ""
	}
	insert := insertHeader(cookieName, "cookies.join("+lit(cookieSep)+")")
	if anyOptional {
		insert = "if !cookies.is_empty() { " + insert + " }"
	}
	lines := append([]string{cookiesDecl}, stmts...)
	return strings.Join(append(lines, insert), "\n")
}

// insertHeader inserts value (a String expression) under name, converting it
// with HeaderValue::from_str. Invalid header characters surface as an error
// of the generated code at run time.
func insertHeader(name, value string) string {
	return "headers.insert(" + name + ", reqwest::header::HeaderValue::from_str(&" + value + ")?);"
}
