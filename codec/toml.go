package codec

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/driftfile/driftfile/ir"
)

type TOML struct{}

func (TOML) Extensions() []string { return []string{"toml"} }

func (TOML) Parse(data []byte) (*ir.Node, error) {
	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Format: "toml", Err: err}
	}
	return FromGo(v)
}

func (TOML) Render(n *ir.Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("toml: document must be a mapping, got nothing")
	}
	if n.Type != ir.ObjectType {
		return nil, fmt.Errorf("toml: document must be a mapping, got %v", n.Type)
	}
	return toml.Marshal(ToGo(n))
}
