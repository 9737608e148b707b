package design

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"
)

// keyOrder records, per table path, the order in which keys first appear.
// Elements of an array share the path of the array.
type keyOrder map[string][]string

func pathKey(path []string) string { return strings.Join(path, "\x00") }

func (o keyOrder) add(path []string) {
	for i := range path {
		parent := pathKey(path[:i])
		if !slices.Contains(o[parent], path[i]) {
			o[parent] = append(o[parent], path[i])
		}
	}
}

func (o keyOrder) keyValue(table []string, kv *unstable.Node) {
	path := append(slices.Clone(table), keyParts(kv.Key())...)
	o.add(path)
	o.value(path, kv.Value())
}

func (o keyOrder) value(path []string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			if n := it.Node(); n.Kind == unstable.KeyValue {
				o.keyValue(path, n)
			}
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			o.value(path, it.Node())
		}
	}
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// scanOrder walks the TOML expressions and records the document key order.
func scanOrder(data []byte) (keyOrder, error) {
	var p unstable.Parser
	p.Reset(data)

	order := keyOrder{}
	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(e.Key())
			order.add(table)
		case unstable.KeyValue:
			order.keyValue(table, e)
		}
	}
	return order, p.Error()
}

// parseTOML decodes data and rebuilds it as a YAML node tree whose mappings
// follow the TOML document order.
func parseTOML(data []byte) (*yaml.Node, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, _ := de.Position()
			return nil, fmt.Errorf("line %d: %s", row, de.Error())
		}
		return nil, err
	}
	if len(m) == 0 {
		return nil, errors.New("empty document")
	}

	order, err := scanOrder(data)
	if err != nil {
		return nil, err
	}
	return tomlNode(m, nil, order)
}

func tomlNode(v any, path []string, order keyOrder) (*yaml.Node, error) {
	switch v := v.(type) {
	case map[string]any:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range orderedKeys(v, order[pathKey(path)]) {
			child, err := tomlNode(v[k], append(slices.Clone(path), k), order)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			n.Content = append(n.Content, key, child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v {
			child, err := tomlNode(e, path, order)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

// orderedKeys lists the keys of m in document order. Keys the scan did not
// see are appended sorted.
func orderedKeys(m map[string]any, seen []string) []string {
	keys := make([]string, 0, len(m))
	for _, k := range seen {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
