package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/driftfile/driftfile/codec"
	"github.com/driftfile/driftfile/storage"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: get requires a file and a path", cli.ErrUsage)
	}
	file, path := args[0], args[1]
	data, err := jsonBytes(cc, file)
	if err != nil {
		return err
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fmt.Errorf("no value at %q in %s", path, file)
	}
	_, err = fmt.Fprintln(cfg.writer(cc), res.Raw)
	return err
}

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: set requires a file, a path, and a value", cli.ErrUsage)
	}
	file, path, value := args[0], args[1], args[2]
	if !strings.EqualFold(filepath.Ext(file), ".json") {
		return fmt.Errorf("%w: set edits JSON documents only", cli.ErrUsage)
	}
	data, err := readDocFile(cc, file)
	if err != nil {
		return err
	}
	var out []byte
	if gjson.Valid(value) {
		out, err = sjson.SetRawBytes(data, path, []byte(value))
	} else {
		out, err = sjson.SetBytes(data, path, value)
	}
	if err != nil {
		return fmt.Errorf("error setting %q: %w", path, err)
	}
	dir := storage.NewDir(filepath.Dir(file))
	return dir.Write(filepath.Base(file), out)
}

// jsonBytes returns the file's content as JSON, converting from its own
// format when it is not already JSON.
func jsonBytes(cc *cli.Context, file string) ([]byte, error) {
	data, err := readDocFile(cc, file)
	if err != nil {
		return nil, err
	}
	c := codec.ForPath(file)
	if _, ok := c.(codec.JSON); ok && file != "-" {
		return data, nil
	}
	n, err := c.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", file, err)
	}
	return codec.JSON{}.Render(n)
}
