// Package migrate upgrades persisted section payloads written by older
// releases. A section registers a target Version and a Func; when a loaded
// file carries an older version (or none at all), the Func is given the raw
// payload to rewrite before it is merged with defaults.
package migrate

import (
	"strings"

	"github.com/driftfile/driftfile/ir"
)

// Func rewrites a stale payload. fileVersion is the version found in the
// file, or nil when the file predates version tracking. The returned bool
// reports whether the payload was modified; returning false leaves the
// stored bytes untouched until something else dirties the section.
type Func func(fileVersion *Version, target Version, payload *ir.Node) (*ir.Node, bool, error)

// Chain runs each step in order, feeding the output of one into the next.
// The combined change flag is true if any step reported a change.
func Chain(steps ...Func) Func {
	return func(fileVersion *Version, target Version, payload *ir.Node) (*ir.Node, bool, error) {
		changed := false
		for _, step := range steps {
			next, ch, err := step(fileVersion, target, payload)
			if err != nil {
				return nil, changed, err
			}
			payload = next
			changed = changed || ch
		}
		return payload, changed, nil
	}
}

// Since gates a step so it only runs for files older than from. Files with
// no recorded version are treated as older than everything.
func Since(from Version, step Func) Func {
	return func(fileVersion *Version, target Version, payload *ir.Node) (*ir.Node, bool, error) {
		if fileVersion != nil && !fileVersion.Less(from) {
			return payload, false, nil
		}
		return step(fileVersion, target, payload)
	}
}

// RenameKey moves the value at a dotted path to a new key in the same
// parent. It is a no-op when the path is absent.
func RenameKey(path, newName string) Func {
	return func(_ *Version, _ Version, payload *ir.Node) (*ir.Node, bool, error) {
		parent, key := lookupParent(payload, path)
		if parent == nil || parent.Get(key) == nil {
			return payload, false, nil
		}
		val := parent.Get(key)
		parent.Delete(key)
		parent.Set(newName, val)
		return payload, true, nil
	}
}

// DeleteKey drops the value at a dotted path. It is a no-op when absent.
func DeleteKey(path string) Func {
	return func(_ *Version, _ Version, payload *ir.Node) (*ir.Node, bool, error) {
		parent, key := lookupParent(payload, path)
		if parent == nil || parent.Get(key) == nil {
			return payload, false, nil
		}
		parent.Delete(key)
		return payload, true, nil
	}
}

// TransformKey applies fn to the value at a dotted path. It is a no-op when
// the path is absent.
func TransformKey(path string, fn func(*ir.Node) (*ir.Node, error)) Func {
	return func(_ *Version, _ Version, payload *ir.Node) (*ir.Node, bool, error) {
		parent, key := lookupParent(payload, path)
		if parent == nil {
			return payload, false, nil
		}
		old := parent.Get(key)
		if old == nil {
			return payload, false, nil
		}
		next, err := fn(old)
		if err != nil {
			return nil, false, err
		}
		if ir.Equal(old, next) {
			return payload, false, nil
		}
		parent.Set(key, next)
		return payload, true, nil
	}
}

// lookupParent walks a dotted path and returns the object holding the final
// segment plus that segment. It returns nil when an intermediate segment is
// missing or not an object.
func lookupParent(root *ir.Node, path string) (*ir.Node, string) {
	segs := strings.Split(path, ".")
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		cur = cur.Get(seg)
		if cur == nil || cur.Type != ir.ObjectType {
			return nil, ""
		}
	}
	if cur == nil || cur.Type != ir.ObjectType {
		return nil, ""
	}
	return cur, segs[len(segs)-1]
}
