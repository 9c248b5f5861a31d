package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/driftfile/driftfile"
	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/ir"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := getDocFile(cc, args[0])
	if err != nil {
		return err
	}
	b, err := getDocFile(cc, args[1])
	if err != nil {
		return err
	}
	delta := driftfile.Diff(a, b)
	if delta == nil {
		return nil
	}
	w := cfg.writer(cc)
	if cfg.Structural {
		out := cfg.OutCodec
		if out == nil {
			out = codec.JSON{}
		}
		data, err := out.Render(delta)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	if err := lineDiff(cfg, w, a, b); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// lineDiff renders both documents as sorted pretty JSON and prints a colored
// line diff between the two renderings.
func lineDiff(cfg *DiffConfig, w io.Writer, a, b *ir.Node) error {
	ra, err := codec.JSON{}.Render(a)
	if err != nil {
		return err
	}
	rb, err := codec.JSON{}.Render(b)
	if err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(ra), string(rb))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	useColor := cfg.colorize(w)
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, d := range diffs {
		prefix, paint := " ", (*color.Color)(nil)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint = "-", del
		case diffmatchpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		for _, line := range splitLines(d.Text) {
			text := prefix + line
			if useColor && paint != nil {
				text = paint.Sprint(text)
			}
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
