// Package ir defines the generic value tree all of driftfile operates on.
//
// A tree stands in for any parsed settings document, whatever byte format it
// came from. The diff and merge engine, the migration pipeline, and the
// section store all work on *ir.Node and never see concrete encodings.
package ir
