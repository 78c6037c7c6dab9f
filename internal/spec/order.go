package spec

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// PropertyOrder remembers the order object properties are declared in.
// kin-openapi decodes properties into a map, so the order has to come from
// the raw document. Orders are keyed by the set of property names; a set
// declared in two different orders is ambiguous and falls back to sorted.
//
// A nil *PropertyOrder sorts every property list.
type PropertyOrder struct {
	orders    map[string][]string
	ambiguous map[string]bool
}

// NewPropertyOrder returns an empty PropertyOrder.
func NewPropertyOrder() *PropertyOrder {
	return &PropertyOrder{orders: map[string][]string{}, ambiguous: map[string]bool{}}
}

// Scan records every "properties" mapping of a YAML or JSON document.
func (o *PropertyOrder) Scan(data []byte) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("scan property order: %w", err)
	}
	o.walk(&root)
	return nil
}

func (o *PropertyOrder) walk(n *yaml.Node) {
	if n == nil || n.Kind == yaml.AliasNode {
		return
	}
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Value == "properties" && val.Kind == yaml.MappingNode {
				names := make([]string, 0, len(val.Content)/2)
				for j := 0; j+1 < len(val.Content); j += 2 {
					names = append(names, val.Content[j].Value)
				}
				o.record(names)
			}
		}
	}
	for _, c := range n.Content {
		o.walk(c)
	}
}

func (o *PropertyOrder) record(names []string) {
	if len(names) < 2 {
		return
	}
	if o.orders == nil {
		o.orders, o.ambiguous = map[string][]string{}, map[string]bool{}
	}
	key := setKey(names)
	if o.ambiguous[key] {
		return
	}
	if prev, ok := o.orders[key]; ok {
		if !slices.Equal(prev, names) {
			delete(o.orders, key)
			o.ambiguous[key] = true
		}
		return
	}
	o.orders[key] = names
}

// Arrange puts names into declaration order when it is known, and sorts
// them otherwise.
func (o *PropertyOrder) Arrange(names []string) {
	slices.Sort(names)
	if o == nil {
		return
	}
	if declared, ok := o.orders[setKey(names)]; ok && len(declared) == len(names) {
		copy(names, declared)
	}
}

func setKey(names []string) string {
	sorted := slices.Sorted(slices.Values(names))
	return strings.Join(sorted, "\x00")
}

