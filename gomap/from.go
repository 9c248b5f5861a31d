package gomap

import (
	"fmt"
	"math"
	"reflect"

	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
)

// From decodes a value tree into v, which must be a non-nil pointer. Fields
// absent from the tree are left untouched, so decoding a delta onto a value
// pre-filled with defaults yields the merged result.
func From(n *ir.Node, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &UnmarshalError{Message: "target must be a non-nil pointer"}
	}
	return fromNode(n, rv.Elem(), "")
}

func fromNode(n *ir.Node, dst reflect.Value, path string) error {
	if n == nil || n.Type == ir.NullType {
		dst.SetZero()
		return nil
	}
	switch dst.Kind() {
	case reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return fromNode(n, dst.Elem(), path)

	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return &UnmarshalError{Path: path, Message: "cannot decode into non-empty interface"}
		}
		dst.Set(reflect.ValueOf(codec.ToGo(n)))
		return nil

	case reflect.Bool:
		if n.Type != ir.BoolType {
			return typeMismatch(path, "bool", n)
		}
		dst.SetBool(n.Bool)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := intValue(n)
		if !ok {
			return typeMismatch(path, "integer", n)
		}
		if dst.OverflowInt(i) {
			return &UnmarshalError{Path: path, Message: fmt.Sprintf("%d overflows %s", i, dst.Type())}
		}
		dst.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := intValue(n)
		if !ok || i < 0 {
			return typeMismatch(path, "unsigned integer", n)
		}
		if dst.OverflowUint(uint64(i)) {
			return &UnmarshalError{Path: path, Message: fmt.Sprintf("%d overflows %s", i, dst.Type())}
		}
		dst.SetUint(uint64(i))
		return nil

	case reflect.Float32, reflect.Float64:
		if n.Type != ir.NumberType {
			return typeMismatch(path, "number", n)
		}
		switch {
		case n.Float64 != nil:
			dst.SetFloat(*n.Float64)
		case n.Int64 != nil:
			dst.SetFloat(float64(*n.Int64))
		}
		return nil

	case reflect.String:
		if n.Type != ir.StringType {
			return typeMismatch(path, "string", n)
		}
		dst.SetString(n.String)
		return nil

	case reflect.Slice:
		if n.Type != ir.ArrayType {
			return typeMismatch(path, "array", n)
		}
		res := reflect.MakeSlice(dst.Type(), len(n.Values), len(n.Values))
		for i, elem := range n.Values {
			if err := fromNode(elem, res.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dst.Set(res)
		return nil

	case reflect.Array:
		if n.Type != ir.ArrayType {
			return typeMismatch(path, "array", n)
		}
		for i := 0; i < dst.Len() && i < len(n.Values); i++ {
			if err := fromNode(n.Values[i], dst.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if n.Type != ir.ObjectType {
			return typeMismatch(path, "mapping", n)
		}
		if dst.Type().Key().Kind() != reflect.String {
			return &UnmarshalError{Path: path, Message: "map keys must be strings"}
		}
		res := reflect.MakeMapWithSize(dst.Type(), len(n.Keys))
		for i, key := range n.Keys {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := fromNode(n.Values[i], ev, path+"."+key); err != nil {
				return err
			}
			res.SetMapIndex(reflect.ValueOf(key).Convert(dst.Type().Key()), ev)
		}
		dst.Set(res)
		return nil

	case reflect.Struct:
		if n.Type != ir.ObjectType {
			return typeMismatch(path, "mapping", n)
		}
		return objectToStruct(n, dst, path)
	}
	return &UnmarshalError{Path: path, Message: "unsupported kind " + dst.Kind().String()}
}

func objectToStruct(n *ir.Node, dst reflect.Value, path string) error {
	ty := dst.Type()
	for i := range ty.NumField() {
		sf := ty.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := dst.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
			if err := objectToStruct(n, fv, path); err != nil {
				return err
			}
			continue
		}
		name, _, skip := fieldName(sf)
		if skip {
			continue
		}
		val := n.Get(name)
		if val == nil {
			continue
		}
		if err := fromNode(val, fv, path+"."+name); err != nil {
			return err
		}
	}
	return nil
}

func intValue(n *ir.Node) (int64, bool) {
	if n.Type != ir.NumberType {
		return 0, false
	}
	if n.Int64 != nil {
		return *n.Int64, true
	}
	if n.Float64 != nil {
		f := *n.Float64
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f), true
		}
	}
	return 0, false
}

func typeMismatch(path, want string, n *ir.Node) error {
	return &UnmarshalError{Path: path, Message: fmt.Sprintf("expected %s, got %s", want, n.Type)}
}
