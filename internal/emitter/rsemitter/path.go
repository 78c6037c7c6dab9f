package rsemitter

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mark3labs/reqsnip/internal/spec"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]*)\}`)

// Path returns a Rust expression producing the request path for template.
//
// A template without placeholders comes back as a plain string literal.
// Otherwise every {name} occurrence is replaced, in order, by the stringified
// path parameter of that exact name and the pieces are concatenated:
//
//	&["/users/", &id.to_string(), ""].join("")
//
// An absent optional value contributes an empty string so the path keeps its
// shape. A placeholder with no matching path parameter fails with
// *TemplateResolutionError.
func (e *Emitter) Path(template string, params []spec.ParameterSpec, mode Mode) (Fragment, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 {
		return Fragment(lit(template)), nil
	}

	pathParams := spec.ByLocation(params, spec.InPath)
	parts := make([]string, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		name := template[m[2]:m[3]]
		p, ok := findParam(pathParams, name)
		if !ok {
			known := make([]string, len(pathParams))
			for i, pp := range pathParams {
				known[i] = pp.Name
			}
			return "", &TemplateResolutionError{Template: template, Placeholder: name, Known: known}
		}
		parts = append(parts, lit(template[last:m[0]]), "&"+e.pathValue(p, mode))
		last = m[1]
	}
	parts = append(parts, lit(template[last:]))
	return Fragment("&[" + strings.Join(parts, ", ") + `].join("")`), nil
}

func (e *Emitter) pathValue(p spec.ParameterSpec, mode Mode) string {
	binding := bindingName(p.Name)
	s := e.resolve(p)
	if p.Required {
		return display(mode, binding, s, pathStyle, false)
	}
	return mode.orEmpty(binding, binding, display(mode, binding, s, pathStyle, true))
}

func findParam(params []spec.ParameterSpec, name string) (spec.ParameterSpec, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return spec.ParameterSpec{}, false
}

// URLPath returns the path of an absolute URL such as a server URL, or raw
// unchanged when it does not parse as one.
func URLPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Path
}
