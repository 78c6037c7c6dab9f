package rsemitter

import (
	"strings"

	"github.com/mark3labs/reqsnip/internal/naming"
	"github.com/mark3labs/reqsnip/internal/spec"
)

const queryDecl = "let mut query_params: Vec<(String, String)> = Vec::new();"

// Query returns statements that fill query_params with (key, value) pairs in
// declaration order. Arrays repeat their key once per element instead of
// joining, objects push one pair per property. Without query parameters the
// fragment is empty and nothing is declared.
func (e *Emitter) Query(params []spec.ParameterSpec, mode Mode) Fragment {
	qp := spec.ByLocation(params, spec.InQuery)
	if len(qp) == 0 {
		return ""
	}
	lines := make([]string, 0, len(qp)+1)
	lines = append(lines, queryDecl)
	for _, p := range qp {
		lines = append(lines, e.queryParam(p, mode))
	}
	return Fragment(strings.Join(lines, "\n"))
}

func (e *Emitter) queryParam(p spec.ParameterSpec, mode Mode) string {
	binding := bindingName(p.Name)
	s := e.resolve(p)

	var body string
	switch shapeOf(s) {
	case shapeObject:
		stmts := make([]string, 0, len(s.Properties))
		for _, prop := range s.Properties {
			field := binding + "." + naming.ParamName(prop.Name)
			if prop.Required {
				stmts = append(stmts, pushValue(prop.Name, field, prop.Schema))
				continue
			}
			pb := bindingName(prop.Name)
			stmts = append(stmts, mode.guard(pb, field, pushValue(prop.Name, pb, prop.Schema)))
		}
		body = strings.Join(stmts, " ")
	case shapeMap:
		stmt := "query_params.push((k.to_string(), v.to_string()));"
		if !p.Required {
			// values of an optional map are typed Option<..> as well
			stmt = mode.guard("v", "v", stmt)
		}
		body = "for (k, v) in " + binding + ".iter() { " + stmt + " }"
	default:
		body = pushValue(p.Name, binding, s)
	}

	if p.Required {
		return body
	}
	return mode.guard(binding, binding, body)
}

// pushValue pushes expr under key, once per element for arrays.
func pushValue(key, expr string, s *spec.Schema) string {
	if shapeOf(s) == shapeArray {
		return "for el in " + expr + ".iter() { " + push(key, "el.to_string()") + " }"
	}
	return push(key, expr+".to_string()")
}

func push(key, value string) string {
	return "query_params.push((" + lit(key) + ".into(), " + value + "));"
}
