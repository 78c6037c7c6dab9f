// Package rsemitter emits the request-building fragments of a Rust reqwest
// client method: the URL path expression, the query parameter list and the
// header map.
//
// Every emitter is a pure function of its inputs. The generation mode is an
// explicit argument and no state is shared between calls, so operations may
// be emitted concurrently. Output is byte-identical for identical input.
package rsemitter

import (
	"github.com/mark3labs/reqsnip/internal/logging"
	"github.com/mark3labs/reqsnip/internal/spec"
	"github.com/mark3labs/reqsnip/internal/typemap"
)

// Fragment is pre-escaped Rust source.
type Fragment = typemap.Fragment

// Emitter carries the optional collaborators of the emit functions. The zero
// value is usable: no type table and a no-op logger.
type Emitter struct {
	types spec.TypeTable
	log   logging.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithTypes lets parameters whose schema is a reference expose the
// properties of the referenced object. References are followed one step only.
func WithTypes(types spec.TypeTable) Option {
	return func(e *Emitter) { e.types = types }
}

// WithLogger sets the logger; nil means no logging.
func WithLogger(l logging.Logger) Option {
	return func(e *Emitter) { e.log = l }
}

// New builds an Emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.OrNop(e.log)
	return e
}

var defaultEmitter = New()

// EmitPath is Emitter.Path on an Emitter without a type table.
func EmitPath(template string, params []spec.ParameterSpec, mode Mode) (Fragment, error) {
	return defaultEmitter.Path(template, params, mode)
}

// EmitQuery is Emitter.Query on an Emitter without a type table.
func EmitQuery(params []spec.ParameterSpec, mode Mode) Fragment {
	return defaultEmitter.Query(params, mode)
}

// EmitHeaders is Emitter.Headers on an Emitter without a type table.
func EmitHeaders(params []spec.ParameterSpec, mode Mode) Fragment {
	return defaultEmitter.Headers(params, mode)
}

// resolve returns the schema used to serialize p.
func (e *Emitter) resolve(p spec.ParameterSpec) *spec.Schema {
	s := e.types.Deref(p.Schema)
	if s != p.Schema {
		e.logger().Debug("dereferenced parameter schema", "param", p.Name, "ref", p.Schema.Ref)
	}
	return s
}

func (e *Emitter) logger() logging.Logger { return logging.OrNop(e.log) }

// ParamSignature is one argument of the generated client method.
type ParamSignature struct {
	Name     string        `json:"name" yaml:"name"`
	Binding  string        `json:"binding" yaml:"binding"`
	In       spec.Location `json:"in" yaml:"in"`
	Type     Fragment      `json:"type" yaml:"type"`
	Optional bool          `json:"optional" yaml:"optional"`
}

// OperationSnippets bundles every fragment needed for one operation.
type OperationSnippets struct {
	ID     string           `json:"id" yaml:"id"`
	Method spec.HttpMethod  `json:"method" yaml:"method"`
	Path   string           `json:"path" yaml:"path"`
	Mode   string           `json:"mode" yaml:"mode"`
	Params []ParamSignature `json:"params,omitempty" yaml:"params,omitempty"`

	URL Fragment `json:"url" yaml:"url"`
	// Query is empty when the operation has no query parameters.
	Query Fragment `json:"query,omitempty" yaml:"query,omitempty"`
	// NeedsHeaders tells the caller whether Headers has anything beyond the
	// empty map declaration.
	NeedsHeaders bool     `json:"needsHeaders" yaml:"needsHeaders"`
	Headers      Fragment `json:"headers" yaml:"headers"`
}

// Operation emits signatures and all request fragments for op. The only
// error is a *TemplateResolutionError from the path template.
func (e *Emitter) Operation(op spec.OperationModel, mode Mode) (*OperationSnippets, error) {
	scoped := *e
	scoped.log = e.logger().With("operation", op.ID)

	url, err := scoped.Path(op.Path, op.Parameters, mode)
	if err != nil {
		return nil, err
	}
	out := &OperationSnippets{
		ID:           op.ID,
		Method:       op.Method,
		Path:         op.Path,
		Mode:         mode.String(),
		URL:          url,
		Query:        scoped.Query(op.Parameters, mode),
		NeedsHeaders: spec.HasHeaderOrCookie(op.Parameters),
		Headers:      scoped.Headers(op.Parameters, mode),
	}
	for _, p := range op.Parameters {
		typ := typemap.Safe(p.Schema, p.Required, mode.wrapper())
		out.Params = append(out.Params, ParamSignature{
			Name:     p.Name,
			Binding:  bindingName(p.Name),
			In:       p.In,
			Type:     typ,
			Optional: typemap.IsOptional(typ.String()),
		})
	}
	return out, nil
}
