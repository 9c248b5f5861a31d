package driftfile

import (
	"github.com/driftfile/driftfile/ir"
)

// Diff produces the minimal subtree of current that differs from base. If
// the two trees are equal, Diff returns nil and the caller should persist
// nothing.
//
// The result is a delta suitable for [Merge]:
//
//   - scalars that differ are emitted verbatim; equal scalars are omitted.
//
//   - arrays are compared element-wise, and any difference (including a
//     length change) emits the entire current array. Index-level patches are
//     deliberately unsupported: they are ambiguous under reorder and resize.
//
//   - objects emit only the keys whose recursive diff is non-empty. A key
//     present in current but absent in base is emitted verbatim. Keys absent
//     from current are not represented at all; a delta is always merged onto
//     a fresh default, so dropped keys already come out right.
//
//   - when base and current disagree on type, current is emitted verbatim.
//
// These rules make Merge(base, Diff(base, current)) equivalent to current
// whenever current retains base's keys, which merged settings always do.
func Diff(base, current *ir.Node) *ir.Node {
	if base == nil || current == nil {
		if ir.Equal(base, current) {
			return nil
		}
		return current.Clone()
	}
	if base.Type != current.Type {
		return current.Clone()
	}
	if current.Type == ir.ObjectType {
		return diffObject(base, current)
	}
	// Arrays and scalars replace wholesale.
	if ir.Equal(base, current) {
		return nil
	}
	return current.Clone()
}

func diffObject(base, current *ir.Node) *ir.Node {
	delta := ir.NewObject()
	for i, key := range current.Keys {
		bv := base.Get(key)
		if bv == nil {
			delta.Set(key, current.Values[i].Clone())
			continue
		}
		if d := Diff(bv, current.Values[i]); d != nil {
			delta.Set(key, d)
		}
	}
	if delta.Len() == 0 {
		return nil
	}
	return delta
}
