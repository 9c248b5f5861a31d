package gomap

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/driftfile/driftfile/ir"
)

// To converts a Go value to a value tree. Structs become objects keyed by
// their `json` tag names (falling back to the field name), nil pointers and
// nil interfaces become null, and maps come out with sorted keys.
func To(v any) (*ir.Node, error) {
	if v == nil {
		return ir.Null(), nil
	}
	return toNode(reflect.ValueOf(v), "")
}

func toNode(val reflect.Value, path string) (*ir.Node, error) {
	if !val.IsValid() {
		return ir.Null(), nil
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return ir.Null(), nil
		}
		return toNode(val.Elem(), path)

	case reflect.Bool:
		return ir.FromBool(val.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ir.FromInt(int64(val.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(val.Float()), nil

	case reflect.String:
		return ir.FromString(val.String()), nil

	case reflect.Slice:
		if val.IsNil() {
			return ir.Null(), nil
		}
		fallthrough
	case reflect.Array:
		elems := make([]*ir.Node, val.Len())
		for i := range elems {
			n, err := toNode(val.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return ir.FromSlice(elems), nil

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, &MarshalError{Path: path, Message: "map keys must be strings"}
		}
		if val.IsNil() {
			return ir.Null(), nil
		}
		m := make(map[string]reflect.Value, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value()
		}
		res := ir.NewObject()
		for _, key := range slices.Sorted(maps.Keys(m)) {
			n, err := toNode(m[key], path+"."+key)
			if err != nil {
				return nil, err
			}
			res.Set(key, n)
		}
		return res, nil

	case reflect.Struct:
		res := ir.NewObject()
		if err := structToObject(val, res, path); err != nil {
			return nil, err
		}
		return res, nil
	}
	return nil, &MarshalError{Path: path, Message: "unsupported kind " + val.Kind().String()}
}

func structToObject(val reflect.Value, res *ir.Node, path string) error {
	ty := val.Type()
	for i := range ty.NumField() {
		sf := ty.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := val.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
			if err := structToObject(fv, res, path); err != nil {
				return err
			}
			continue
		}
		name, omitEmpty, skip := fieldName(sf)
		if skip {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		n, err := toNode(fv, path+"."+name)
		if err != nil {
			return err
		}
		res.Set(name, n)
	}
	return nil
}
