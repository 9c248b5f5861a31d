package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/driftfile/driftfile/ir"
)

// Codec converts between a byte encoding and the generic value tree. Parse
// must wrap malformed-input failures in *DecodeError so callers can fall
// back to defaults without inspecting format-specific error types.
type Codec interface {
	Parse(data []byte) (*ir.Node, error)
	Render(n *ir.Node) ([]byte, error)
	Extensions() []string
}

// DecodeError reports malformed input at the encoding boundary.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var codecs = []Codec{
	JSON{},
	Wire{},
	YAML{},
	TOML{},
}

// ForExt returns the codec registered for a file extension (without the
// dot), defaulting to pretty JSON for unknown extensions.
func ForExt(ext string) Codec {
	ext = strings.ToLower(ext)
	for _, c := range codecs {
		for _, e := range c.Extensions() {
			if e == ext {
				return c
			}
		}
	}
	return JSON{}
}

// ForPath returns the codec for a file path based on its extension.
func ForPath(path string) Codec {
	return ForExt(strings.TrimPrefix(filepath.Ext(path), "."))
}
