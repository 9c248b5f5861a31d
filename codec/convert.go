package codec

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/driftfile/driftfile/ir"
)

// FromGo converts a decoded Go value (the map/slice/scalar shapes produced
// by the JSON, YAML, and TOML decoders) into a value tree. Object keys come
// out sorted so trees built from Go maps are deterministic.
func FromGo(v any) (*ir.Node, error) {
	switch t := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(t), nil
	case string:
		return ir.FromString(t), nil
	case int:
		return ir.FromInt(int64(t)), nil
	case int8:
		return ir.FromInt(int64(t)), nil
	case int16:
		return ir.FromInt(int64(t)), nil
	case int32:
		return ir.FromInt(int64(t)), nil
	case int64:
		return ir.FromInt(t), nil
	case uint:
		return ir.FromInt(int64(t)), nil
	case uint8:
		return ir.FromInt(int64(t)), nil
	case uint16:
		return ir.FromInt(int64(t)), nil
	case uint32:
		return ir.FromInt(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return ir.FromFloat(float64(t)), nil
		}
		return ir.FromInt(int64(t)), nil
	case float32:
		return ir.FromFloat(float64(t)), nil
	case float64:
		return ir.FromFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return ir.FromInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("unparseable number %q", t)
		}
		return ir.FromFloat(f), nil
	case []any:
		elems := make([]*ir.Node, len(t))
		for i, e := range t {
			n, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return ir.FromSlice(elems), nil
	case map[string]any:
		res := ir.NewObject()
		for _, key := range slices.Sorted(maps.Keys(t)) {
			n, err := FromGo(t[key])
			if err != nil {
				return nil, err
			}
			res.Set(key, n)
		}
		return res, nil
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string object key %v (%T)", k, k)
			}
			m[ks] = val
		}
		return FromGo(m)
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}

// ToGo converts a value tree into plain Go maps, slices, and scalars, the
// shape the encoders consume. Object key order is not preserved; encoders
// that need deterministic output sort keys themselves.
func ToGo(n *ir.Node) any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return n.Bool
	case ir.NumberType:
		if n.Int64 != nil {
			return *n.Int64
		}
		if n.Float64 != nil {
			return *n.Float64
		}
		return int64(0)
	case ir.StringType:
		return n.String
	case ir.ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToGo(v)
		}
		return res
	case ir.ObjectType:
		res := make(map[string]any, len(n.Keys))
		for i, k := range n.Keys {
			res[k] = ToGo(n.Values[i])
		}
		return res
	}
	return nil
}
