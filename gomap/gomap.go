// Package gomap converts between typed Go values and the generic tree of
// package ir using reflection. It is the object-to-tree capability sections
// use to register typed defaults and read merged results back, honoring
// `json` struct tags so the persisted form matches what encoding/json would
// have produced for the same type.
package gomap

import (
	"fmt"
)

// MarshalError reports a value that cannot be represented as a tree.
type MarshalError struct {
	Path    string
	Message string
}

func (e *MarshalError) Error() string {
	if e.Path == "" {
		return "gomap: " + e.Message
	}
	return fmt.Sprintf("gomap: %s: %s", e.Path, e.Message)
}

// UnmarshalError reports a tree that cannot be decoded into the target type.
type UnmarshalError struct {
	Path    string
	Message string
}

func (e *UnmarshalError) Error() string {
	if e.Path == "" {
		return "gomap: " + e.Message
	}
	return fmt.Sprintf("gomap: %s: %s", e.Path, e.Message)
}
