package driftfile

import (
	"github.com/driftfile/driftfile/ir"
)

// Merge applies a delta produced by [Diff] onto a baseline, reconstructing
// the full value. A nil delta yields a copy of the baseline.
//
// Scalars and arrays in the delta replace the baseline value wholesale,
// matching Diff's whole-array policy. Objects merge per key: keys only in
// the baseline are kept, keys in the delta are merged recursively, with an
// absent baseline key treated as null. When the two trees disagree on type
// at a node, the delta wins outright.
//
// Merge never fails on well-formed trees.
func Merge(base, delta *ir.Node) *ir.Node {
	if delta == nil {
		return base.Clone()
	}
	if base == nil {
		base = ir.Null()
	}
	if base.Type != ir.ObjectType || delta.Type != ir.ObjectType {
		return delta.Clone()
	}
	res := base.Clone()
	for i, key := range delta.Keys {
		res.Set(key, Merge(res.Get(key), delta.Values[i]))
	}
	return res
}
