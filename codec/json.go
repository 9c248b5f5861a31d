package codec

import (
	"github.com/ohler55/ojg/oj"

	"github.com/driftfile/driftfile/ir"
)

// JSON is the default codec: pretty-printed JSON with sorted keys.
type JSON struct{}

func (JSON) Extensions() []string { return []string{"json"} }

func (JSON) Parse(data []byte) (*ir.Node, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}
	return FromGo(v)
}

func (JSON) Render(n *ir.Node) ([]byte, error) {
	s := oj.JSON(ToGo(n), &oj.Options{Sort: true, Indent: 2})
	return append([]byte(s), '\n'), nil
}

// Wire is the compact single-line JSON codec, used where the stored form is
// machine-only (the ".bin" convention).
type Wire struct{}

func (Wire) Extensions() []string { return []string{"bin"} }

func (Wire) Parse(data []byte) (*ir.Node, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, &DecodeError{Format: "bin", Err: err}
	}
	return FromGo(v)
}

func (Wire) Render(n *ir.Node) ([]byte, error) {
	return []byte(oj.JSON(ToGo(n), &oj.Options{Sort: true})), nil
}
