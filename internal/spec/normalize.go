package spec

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// BuildOption configures how the ServiceModel is built from an OpenAPI doc.
type BuildOption func(*buildConfig)

type buildConfig struct {
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
	methods     map[HttpMethod]struct{}
	pathRes     []*regexp.Regexp
	order       *PropertyOrder
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.includeTags = addTags(c.includeTags, tags)
	}
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) BuildOption {
	return func(c *buildConfig) {
		c.excludeTags = addTags(c.excludeTags, tags)
	}
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []HttpMethod) BuildOption {
	return func(c *buildConfig) {
		if len(methods) == 0 {
			return
		}
		if c.methods == nil {
			c.methods = make(map[HttpMethod]struct{}, len(methods))
		}
		for _, m := range methods {
			c.methods[HttpMethod(strings.ToLower(string(m)))] = struct{}{}
		}
	}
}

// WithPathPatterns keeps only operations whose path matches at least one of
// the regular expressions. An invalid pattern matches nothing.
func WithPathPatterns(patterns []string) BuildOption {
	return func(c *buildConfig) {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				re = regexp.MustCompile("a^$")
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

// WithPropertyOrder lists object properties in the order o recorded for them
// instead of sorted by name.
func WithPropertyOrder(o *PropertyOrder) BuildOption {
	return func(c *buildConfig) { c.order = o }
}

func addTags(set map[string]struct{}, tags []string) map[string]struct{} {
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(tags))
		}
		set[t] = struct{}{}
	}
	return set
}

// methodOrder is the stable order operations of one path are visited in.
var methodOrder = []HttpMethod{GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE}

// BuildServiceModel projects an OpenAPI v3 document onto the internal model.
// Paths are visited in sorted order, parameters keep their declaration order,
// and operation-level parameters replace path-level ones with the same
// (in, name) identity in place.
func BuildServiceModel(ctx context.Context, doc *openapi3.T, opts ...BuildOption) (*ServiceModel, error) {
	_ = ctx
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	sm := &ServiceModel{Types: TypeTable{}}
	if doc.Info != nil {
		sm.Title = strings.TrimSpace(doc.Info.Title)
		sm.Version = strings.TrimSpace(doc.Info.Version)
	}
	for _, s := range doc.Servers {
		if s == nil {
			continue
		}
		sm.Servers = append(sm.Servers, Server{URL: strings.TrimSpace(s.URL), Description: strings.TrimSpace(s.Description)})
	}

	if doc.Components != nil {
		for name, ref := range doc.Components.Schemas {
			if s := cfg.toSchema(ref); s != nil {
				sm.Types[name] = s
			}
		}
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		for _, m := range methodOrder {
			op := item.GetOperation(strings.ToUpper(string(m)))
			if op == nil || !cfg.allows(m, p, op.Tags) {
				continue
			}
			om := OperationModel{
				ID:         strings.TrimSpace(op.OperationID),
				Method:     m,
				Path:       p,
				Summary:    strings.TrimSpace(op.Summary),
				Tags:       cleanTags(op.Tags),
				Parameters: cfg.mergeParameters(item.Parameters, op.Parameters),
			}
			if om.ID == "" {
				om.ID = string(m) + " " + p
			}
			sm.Operations = append(sm.Operations, om)
		}
	}

	sm.Tags = collectSortedTags(sm.Operations)
	return sm, nil
}

func (c *buildConfig) allows(m HttpMethod, path string, tags []string) bool {
	if len(c.methods) > 0 {
		if _, ok := c.methods[m]; !ok {
			return false
		}
	}
	if len(c.pathRes) > 0 {
		matched := false
		for _, re := range c.pathRes {
			if re.MatchString(path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	tags = cleanTags(tags)
	if len(c.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := c.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := c.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}

func (c *buildConfig) mergeParameters(pathLevel, opLevel openapi3.Parameters) []ParameterSpec {
	var out []ParameterSpec
	index := make(map[string]int)
	for _, refs := range []openapi3.Parameters{pathLevel, opLevel} {
		for _, ref := range refs {
			ps, ok := c.toParameterSpec(ref)
			if !ok {
				continue
			}
			key := string(ps.In) + ":" + ps.Name
			if i, seen := index[key]; seen {
				out[i] = ps
				continue
			}
			index[key] = len(out)
			out = append(out, ps)
		}
	}
	return out
}

func (c *buildConfig) toParameterSpec(ref *openapi3.ParameterRef) (ParameterSpec, bool) {
	if ref == nil || ref.Value == nil {
		return ParameterSpec{}, false
	}
	p := ref.Value
	ps := ParameterSpec{
		Name:     strings.TrimSpace(p.Name),
		In:       Location(strings.ToLower(strings.TrimSpace(p.In))),
		Required: p.Required,
		Schema:   c.toSchema(p.Schema),
	}
	if ps.In == InPath {
		// OpenAPI requires path parameters to be required; be lenient with docs that forget.
		ps.Required = true
	}
	if len(p.Content) > 0 {
		ps.HasContentMediaType = true
		if ps.Schema == nil {
			mimes := make([]string, 0, len(p.Content))
			for mime := range p.Content {
				mimes = append(mimes, mime)
			}
			sort.Strings(mimes)
			if mt := p.Content[mimes[0]]; mt != nil {
				ps.Schema = c.toSchema(mt.Schema)
			}
		}
	}
	return ps, ps.Name != ""
}

// toSchema converts a kin-openapi schema reference. $ref nodes are kept as
// reference nodes and never followed, which is what keeps cyclic component
// schemas finite.
func (c *buildConfig) toSchema(ref *openapi3.SchemaRef) *Schema {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		return Ref(ref.Ref)
	}
	v := ref.Value
	if v == nil {
		return nil
	}
	s := &Schema{
		Type:   strings.TrimSpace(v.Type),
		Format: strings.TrimSpace(v.Format),
		Items:  c.toSchema(v.Items),
	}
	if len(v.Properties) > 0 {
		required := make(map[string]bool, len(v.Required))
		for _, r := range v.Required {
			required[r] = true
		}
		names := make([]string, 0, len(v.Properties))
		for name := range v.Properties {
			names = append(names, name)
		}
		c.order.Arrange(names)
		for _, name := range names {
			s.Properties = append(s.Properties, Property{
				Name:     name,
				Required: required[name],
				Schema:   c.toSchema(v.Properties[name]),
			})
		}
	}
	if v.AdditionalProperties.Schema != nil {
		s.AdditionalProperties = c.toSchema(v.AdditionalProperties.Schema)
	}
	return s
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func collectSortedTags(ops []OperationModel) []string {
	set := make(map[string]struct{})
	for _, op := range ops {
		for _, t := range op.Tags {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
