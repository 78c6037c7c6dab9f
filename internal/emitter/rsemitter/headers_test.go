package rsemitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mark3labs/reqsnip/internal/spec"
)

func TestEmitHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params []spec.ParameterSpec
		mode   Mode
		want   []string
	}{
		{
			name: "no header parameters",
			params: []spec.ParameterSpec{
				param("id", spec.InPath, true, integ),
			},
		},
		{
			name: "required primitive",
			params: []spec.ParameterSpec{
				param("X-Request-ID", spec.InHeader, true, str),
			},
			want: []string{
				`headers.insert("x-request-id", reqwest::header::HeaderValue::from_str(&x_request_id.to_string())?);`,
			},
		},
		{
			name: "optional primitive",
			params: []spec.ParameterSpec{
				param("X-Trace", spec.InHeader, false, integ),
			},
			mode: ForeignSafe,
			want: []string{
				`if let RSome(x_trace) = &x_trace { headers.insert("x-trace", reqwest::header::HeaderValue::from_str(&x_trace.to_string())?); }`,
			},
		},
		{
			name: "array joins with comma",
			params: []spec.ParameterSpec{
				param("X-Tags", spec.InHeader, true, spec.ArrayOf(str)),
			},
			want: []string{
				`headers.insert("x-tags", reqwest::header::HeaderValue::from_str(&x_tags.iter().map(|el| el.to_string()).collect::<Vec<_>>().join(","))?);`,
			},
		},
		{
			name: "object properties are delimited",
			params: []spec.ParameterSpec{
				param("X-Filter", spec.InHeader, true, spec.ObjectOf(
					spec.Property{Name: "a", Required: true, Schema: str},
					spec.Property{Name: "b", Schema: integ},
				)),
			},
			want: []string{
				`headers.insert("x-filter", reqwest::header::HeaderValue::from_str(&format!("a,{};b,{}", x_filter.a.to_string(), ` +
					`{ if let Some(v) = &x_filter.b { v.to_string() } else { String::new() } }))?);`,
			},
		},
		{
			name: "map",
			params: []spec.ParameterSpec{
				param("X-Meta", spec.InHeader, true, spec.MapOf(str)),
			},
			want: []string{
				`headers.insert("x-meta", reqwest::header::HeaderValue::from_str(&x_meta.iter().map(|(k, v)| format!("{},{}", k, v)).collect::<Vec<_>>().join(","))?);`,
			},
		},
		{
			name: "content media type skipped",
			params: []spec.ParameterSpec{
				{Name: "X-Json", In: spec.InHeader, Required: true, Schema: str, HasContentMediaType: true},
				param("X-Plain", spec.InHeader, true, str),
			},
			want: []string{
				`headers.insert("x-plain", reqwest::header::HeaderValue::from_str(&x_plain.to_string())?);`,
			},
		},
		{
			name: "required cookies",
			params: []spec.ParameterSpec{
				param("session", spec.InCookie, true, str),
				param("csrf", spec.InCookie, true, str),
			},
			want: []string{
				cookiesDecl,
				`cookies.push(format!("session={}", session.to_string()));`,
				`cookies.push(format!("csrf={}", csrf.to_string()));`,
				`headers.insert(reqwest::header::COOKIE, reqwest::header::HeaderValue::from_str(&cookies.join(";"))?);`,
			},
		},
		{
			name: "optional cookie contributes nothing when absent",
			params: []spec.ParameterSpec{
				param("session", spec.InCookie, true, str),
				param("theme", spec.InCookie, false, str),
			},
			want: []string{
				cookiesDecl,
				`cookies.push(format!("session={}", session.to_string()));`,
				`if let Some(theme) = &theme { cookies.push(format!("theme={}", theme.to_string())); }`,
				`if !cookies.is_empty() { headers.insert(reqwest::header::COOKIE, reqwest::header::HeaderValue::from_str(&cookies.join(";"))?); }`,
			},
		},
		{
			name: "cookies precede headers",
			params: []spec.ParameterSpec{
				param("X-Key", spec.InHeader, true, str),
				param("sid", spec.InCookie, true, str),
			},
			want: []string{
				cookiesDecl,
				`cookies.push(format!("sid={}", sid.to_string()));`,
				`headers.insert(reqwest::header::COOKIE, reqwest::header::HeaderValue::from_str(&cookies.join(";"))?);`,
				`headers.insert("x-key", reqwest::header::HeaderValue::from_str(&x_key.to_string())?);`,
			},
		},
		{
			name: "content media type cookie skipped",
			params: []spec.ParameterSpec{
				{Name: "c", In: spec.InCookie, Schema: str, HasContentMediaType: true},
			},
			mode: ForeignSafe,
		},
		{
			name: "skipped optional cookie leaves insert unguarded",
			params: []spec.ParameterSpec{
				{Name: "prefs", In: spec.InCookie, Schema: str, HasContentMediaType: true},
				param("sid", spec.InCookie, true, str),
			},
			want: []string{
				cookiesDecl,
				`cookies.push(format!("sid={}", sid.to_string()));`,
				`headers.insert(reqwest::header::COOKIE, reqwest::header::HeaderValue::from_str(&cookies.join(";"))?);`,
			},
		},
		{
			name: "optional map in foreign-safe mode",
			params: []spec.ParameterSpec{
				param("X-Meta", spec.InHeader, false, spec.MapOf(str)),
			},
			mode: ForeignSafe,
			want: []string{
				`if let RSome(x_meta) = &x_meta { headers.insert("x-meta", reqwest::header::HeaderValue::from_str(&x_meta.iter()` +
					`.filter_map(|(k, v)| v.as_ref().into_option().map(|v| format!("{},{}", k, v))).collect::<Vec<_>>().join(","))?); }`,
			},
		},
		{
			name: "optional map in standard mode",
			params: []spec.ParameterSpec{
				param("X-Meta", spec.InHeader, false, spec.MapOf(str)),
			},
			want: []string{
				`if let Some(x_meta) = &x_meta { headers.insert("x-meta", reqwest::header::HeaderValue::from_str(&x_meta.iter()` +
					`.filter_map(|(k, v)| v.as_ref().map(|v| format!("{},{}", k, v))).collect::<Vec<_>>().join(","))?); }`,
			},
		},
		{
			name: "bindings do not shadow locals",
			params: []spec.ParameterSpec{
				param("cookies", spec.InCookie, false, str),
				param("headers", spec.InHeader, false, str),
			},
			want: []string{
				cookiesDecl,
				`if let Some(cookies_) = &cookies_ { cookies.push(format!("cookies={}", cookies_.to_string())); }`,
				`if !cookies.is_empty() { headers.insert(reqwest::header::COOKIE, reqwest::header::HeaderValue::from_str(&cookies.join(";"))?); }`,
				`if let Some(headers_) = &headers_ { headers.insert("headers", reqwest::header::HeaderValue::from_str(&headers_.to_string())?); }`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			want := strings.Join(append([]string{headersDecl}, tt.want...), "\n")
			assert.Equal(t, want, EmitHeaders(tt.params, tt.mode).String())
		})
	}
}

func TestEmitHeaders_AlwaysDeclaresMap(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{Standard, ForeignSafe} {
		assert.Equal(t, Fragment(headersDecl), EmitHeaders(nil, m))
	}
}

func TestEmitHeaders_SingleCookieInsert(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d", "e"}
	var params []spec.ParameterSpec
	for i, n := range names {
		params = append(params, param(n, spec.InCookie, i%2 == 0, str))
	}

	got := EmitHeaders(params, ForeignSafe).String()
	assert.Equal(t, 1, strings.Count(got, "reqwest::header::COOKIE"))
	for _, n := range names {
		// each cookie carries its own name
		assert.Equal(t, 1, strings.Count(got, `"`+n+`={}"`), n)
	}
	assert.NotContains(t, got, "if let Some(")
}
