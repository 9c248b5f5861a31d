package store

import (
	"strings"

	"github.com/driftfile/driftfile/ir"
)

// Path-derived fields determine where a section is stored and are therefore
// never part of the persisted payload. They are stripped before diffing and
// restored from the live value, never from the file, after loading.

func stripParams(payload *ir.Node, params []string) *ir.Node {
	if payload == nil || payload.Type != ir.ObjectType || len(params) == 0 {
		return payload
	}
	out := payload.Clone()
	for _, p := range params {
		out.Delete(p)
	}
	return out
}

// restoreParams drops any path-param keys the file may (incorrectly) contain
// and re-inserts the live value's current ones.
func restoreParams(loaded, live *ir.Node, params []string) *ir.Node {
	if loaded == nil || loaded.Type != ir.ObjectType || len(params) == 0 {
		return loaded
	}
	out := loaded.Clone()
	for _, p := range params {
		out.Delete(p)
		if live == nil {
			continue
		}
		if v := live.Get(p); v != nil {
			out.Set(p, v.Clone())
		}
	}
	return out
}

// validateParams checks that every path-derived field resolves to a usable
// value on the live object.
func validateParams(section string, live *ir.Node, params []string) error {
	for _, p := range params {
		var v *ir.Node
		if live != nil {
			v = live.Get(p)
		}
		if paramEmpty(v) {
			return &ValidationError{Section: section, Param: p}
		}
	}
	return nil
}

// paramEmpty treats absent, null, and whitespace-only strings as unusable.
func paramEmpty(n *ir.Node) bool {
	if n == nil || n.Type == ir.NullType {
		return true
	}
	if n.Type == ir.StringType && strings.TrimSpace(n.String) == "" {
		return true
	}
	return false
}
