package ir

import (
	"maps"
	"slices"
)

// Node is one value in a settings tree. Exactly one representation is
// meaningful for a given Type:
//
//   - NullType: nothing
//   - BoolType: Bool
//   - NumberType: exactly one of Int64, Float64
//   - StringType: String
//   - ArrayType: Values
//   - ObjectType: Keys and Values, parallel slices with unique keys
//
// Nodes form trees, never graphs; there are no parent or sibling links, so a
// subtree may be shared freely between goroutines as long as nobody mutates
// it.
type Node struct {
	Type Type

	Bool    bool
	String  string
	Int64   *int64
	Float64 *float64

	Keys   []string
	Values []*Node
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Int64: &v}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: &f}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

// FromSlice builds an array node. The elements are used as-is, not cloned.
func FromSlice(elems []*Node) *Node {
	return &Node{Type: ArrayType, Values: elems}
}

// FromMap builds an object node with keys in sorted order so that trees built
// from Go maps render deterministically.
func FromMap(m map[string]*Node) *Node {
	res := NewObject()
	for _, key := range slices.Sorted(maps.Keys(m)) {
		res.Set(key, m[key])
	}
	return res
}

// NewObject returns an empty object node. Keys keep insertion order.
func NewObject() *Node {
	return &Node{Type: ObjectType}
}

// Get returns the value stored under key, or nil. It returns nil for
// non-object nodes.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Type != ObjectType {
		return nil
	}
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i]
		}
	}
	return nil
}

// Set inserts or overwrites the value under key. It panics on non-object
// nodes, mirroring indexing a non-map.
func (n *Node) Set(key string, val *Node) {
	if n.Type != ObjectType {
		panic("ir: Set on non-object node")
	}
	for i, k := range n.Keys {
		if k == key {
			n.Values[i] = val
			return
		}
	}
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, val)
}

// Delete removes key from an object node and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if n == nil || n.Type != ObjectType {
		return false
	}
	for i, k := range n.Keys {
		if k == key {
			n.Keys = slices.Delete(n.Keys, i, i+1)
			n.Values = slices.Delete(n.Values, i, i+1)
			return true
		}
	}
	return false
}

// Len returns the number of entries of an object or array node, 0 otherwise.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Type {
	case ObjectType, ArrayType:
		return len(n.Values)
	}
	return 0
}

// Clone deep-copies the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	dst := &Node{
		Type:   n.Type,
		Bool:   n.Bool,
		String: n.String,
	}
	if n.Int64 != nil {
		i := *n.Int64
		dst.Int64 = &i
	}
	if n.Float64 != nil {
		f := *n.Float64
		dst.Float64 = &f
	}
	if n.Keys != nil {
		dst.Keys = slices.Clone(n.Keys)
	}
	if n.Values != nil {
		dst.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			dst.Values[i] = v.Clone()
		}
	}
	return dst
}

// Visit walks the tree pre- and post-order. The callback's dive result
// controls descent on the pre-order call.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, v := range n.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}
