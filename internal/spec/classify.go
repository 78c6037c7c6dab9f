package spec

// ByLocation returns the parameters located at loc, in input order.
func ByLocation(params []ParameterSpec, loc Location) []ParameterSpec {
	var out []ParameterSpec
	for _, p := range params {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// HasHeaderOrCookie reports whether any parameter travels in a header or a
// cookie, i.e. whether a header map needs declaring at all.
func HasHeaderOrCookie(params []ParameterSpec) bool {
	for _, p := range params {
		if p.In == InHeader || p.In == InCookie {
			return true
		}
	}
	return false
}
