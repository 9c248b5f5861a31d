package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
)

// readDocFile reads a settings document from a path, with "-" meaning the
// command input.
func readDocFile(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return data, nil
}

// getDocFile reads and parses a settings document, picking the codec from
// the file extension (stdin parses as JSON).
func getDocFile(cc *cli.Context, path string) (*ir.Node, error) {
	data, err := readDocFile(cc, path)
	if err != nil {
		return nil, err
	}
	n, err := codec.ForPath(path).Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return n, nil
}
