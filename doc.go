// Package driftfile persists structured settings as deltas against known
// defaults.
//
// On save, [Diff] reduces a settings object to the subtree that deviates
// from its default; on load, [Merge] reconstructs the full object by
// applying the stored delta back onto a fresh default. Both operate on the
// generic value trees of package ir, so any byte format that parses into a
// tree (see package codec) can carry the persisted form.
//
// Package store layers named sections, version migration, and path-derived
// field handling on top of the two primitives.
package driftfile
