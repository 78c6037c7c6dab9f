package rsemitter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateResolution matches any *TemplateResolutionError via errors.Is.
var ErrTemplateResolution = errors.New("unresolved path template placeholder")

// TemplateResolutionError is returned when a path template names a
// placeholder that no path parameter declares. Emitting anyway would produce
// request URLs that are silently wrong, so the whole operation is rejected.
type TemplateResolutionError struct {
	Template    string
	Placeholder string
	// Known lists the declared path parameter names, in declaration order.
	Known []string
}

func (e *TemplateResolutionError) Error() string {
	known := make([]string, len(e.Known))
	for i, k := range e.Known {
		known[i] = "'" + k + "'"
	}
	return fmt.Sprintf("path %q: cannot find path parameter named '%s' in available path parameters: [%s]",
		e.Template, e.Placeholder, strings.Join(known, ", "))
}

func (e *TemplateResolutionError) Is(target error) bool {
	return target == ErrTemplateResolution
}
