package main

import (
	"fmt"
	"io"
	"regexp"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/driftfile/driftfile/codec"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	w := cfg.writer(cc)
	for i, file := range args {
		if err := viewFile(cfg, w, cc, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			w.Write([]byte("\n"))
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, w io.Writer, cc *cli.Context, file string) error {
	n, err := getDocFile(cc, file)
	if err != nil {
		return err
	}
	out := cfg.OutCodec
	if out == nil {
		out = codec.ForPath(file)
	}
	data, err := out.Render(n)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	if cfg.colorize(w) {
		data = colorizeKeys(data)
	}
	_, err = w.Write(data)
	return err
}

var keyRe = regexp.MustCompile(`(?m)^(\s*)("[^"\n]*"|[A-Za-z0-9_.-]+)(\s*[:=])`)

// colorizeKeys highlights the keys of a rendered document. It works on the
// rendered text rather than the tree so every codec gets it for free.
func colorizeKeys(data []byte) []byte {
	key := color.New(color.FgCyan)
	return keyRe.ReplaceAllFunc(data, func(m []byte) []byte {
		parts := keyRe.FindSubmatch(m)
		return []byte(string(parts[1]) + key.Sprint(string(parts[2])) + string(parts[3]))
	})
}
