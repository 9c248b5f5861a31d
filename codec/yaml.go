package codec

import (
	"github.com/goccy/go-yaml"

	"github.com/driftfile/driftfile/ir"
)

type YAML struct{}

func (YAML) Extensions() []string { return []string{"yaml", "yml"} }

func (YAML) Parse(data []byte) (*ir.Node, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Format: "yaml", Err: err}
	}
	return FromGo(v)
}

func (YAML) Render(n *ir.Node) ([]byte, error) {
	return yaml.Marshal(toYAML(n))
}

// toYAML mirrors ToGo but keeps object key order via yaml.MapSlice so the
// rendered document is deterministic.
func toYAML(n *ir.Node) any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case ir.ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = toYAML(v)
		}
		return res
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(n.Keys))
		for i, k := range n.Keys {
			res[i] = yaml.MapItem{Key: k, Value: toYAML(n.Values[i])}
		}
		return res
	}
	return ToGo(n)
}
