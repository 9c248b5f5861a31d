package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/driftfile/driftfile/codec"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=no-color desc='disable colored output'"`

	OutCodec codec.Codec

	Out      string
	outFile  *os.File
	CloseOut func() error

	Main *cli.Command
}

// fmtFunc parses the -O output format name into a codec.
func (cfg *MainConfig) fmtFunc() cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		c, err := namedCodec(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		cfg.OutCodec = c
		return v, nil
	})
}

func namedCodec(name string) (codec.Codec, error) {
	switch name {
	case "json", "j":
		return codec.JSON{}, nil
	case "bin", "wire", "w":
		return codec.Wire{}, nil
	case "yaml", "yml", "y":
		return codec.YAML{}, nil
	case "toml", "t":
		return codec.TOML{}, nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

func (cfg *MainConfig) outOpt(_ *cli.Context, v string) (any, error) {
	f, err := os.Create(v)
	if err != nil {
		return nil, err
	}
	cfg.Out = v
	cfg.outFile = f
	cfg.CloseOut = f.Close
	return v, nil
}

// writer returns the -o destination when set, the command output otherwise.
func (cfg *MainConfig) writer(cc *cli.Context) io.Writer {
	if cfg.outFile != nil {
		return cfg.outFile
	}
	return cc.Out
}

// colorize decides whether output to w gets color: forced on by -color,
// off by -no-color, otherwise on when w is a terminal.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.NoColor {
		return false
	}
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Structural bool `cli:"name=s desc='print the structural delta instead of a line diff'"`

	Diff *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SetConfig struct {
	*MainConfig

	Set *cli.Command
}
