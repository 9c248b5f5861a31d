package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftfile/driftfile/ir"
)

func TestForPath(t *testing.T) {
	for path, want := range map[string]string{
		"settings.json":     "json",
		"settings.JSON":     "json",
		"settings.bin":      "bin",
		"settings.yaml":     "yaml",
		"settings.yml":      "yaml",
		"settings.toml":     "toml",
		"settings.cfg":      "json",
		"no-extension":      "json",
		"dir.d/nested.toml": "toml",
	} {
		got := ForPath(path).Extensions()[0]
		if want == "yaml" {
			require.Contains(t, []string{"yaml", "yml"}, got, path)
			continue
		}
		require.Equal(t, want, got, path)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{"volume":0.5,"count":3,"name":"x","on":true,"none":null,"list":[1,"two"]}`
	n, err := JSON{}.Parse([]byte(src))
	require.NoError(t, err)

	require.NotNil(t, n.Get("count").Int64, "whole numbers parse as integers")
	require.NotNil(t, n.Get("volume").Float64, "fractional numbers parse as floats")

	out, err := JSON{}.Render(n)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(out), "\n"))

	back, err := JSON{}.Parse(out)
	require.NoError(t, err)
	require.True(t, ir.Equal(n, back))
}

func TestWireIsCompact(t *testing.T) {
	n, err := JSON{}.Parse([]byte(`{"a":1,"b":[2,3]}`))
	require.NoError(t, err)
	out, err := Wire{}.Render(n)
	require.NoError(t, err)
	require.NotContains(t, string(out), "\n")
	require.NotContains(t, string(out), "  ")

	back, err := Wire{}.Parse(out)
	require.NoError(t, err)
	require.True(t, ir.Equal(n, back))
}

func TestYAMLRoundTrip(t *testing.T) {
	src := "audio:\n  volume: 0.5\n  muted: true\ntags:\n  - a\n  - b\n"
	n, err := YAML{}.Parse([]byte(src))
	require.NoError(t, err)
	require.Equal(t, 0.5, *n.Get("audio").Get("volume").Float64)

	out, err := YAML{}.Render(n)
	require.NoError(t, err)
	back, err := YAML{}.Parse(out)
	require.NoError(t, err)
	require.True(t, ir.Equal(n, back))

	// key order survives the MapSlice path
	again, err := YAML{}.Render(n)
	require.NoError(t, err)
	require.Equal(t, string(out), string(again))
}

func TestTOMLRoundTrip(t *testing.T) {
	src := "[audio]\nvolume = 0.5\nmuted = true\n"
	n, err := TOML{}.Parse([]byte(src))
	require.NoError(t, err)

	out, err := TOML{}.Render(n)
	require.NoError(t, err)
	back, err := TOML{}.Parse(out)
	require.NoError(t, err)
	require.True(t, ir.Equal(n, back))
}

func TestTOMLRenderRequiresMapping(t *testing.T) {
	_, err := TOML{}.Render(ir.FromInt(1))
	require.Error(t, err)
	_, err = TOML{}.Render(nil)
	require.Error(t, err)
}

func TestDecodeErrors(t *testing.T) {
	for name, c := range map[string]Codec{
		"json": JSON{},
		"bin":  Wire{},
		"toml": TOML{},
	} {
		_, err := c.Parse([]byte("{]not valid"))
		var derr *DecodeError
		require.ErrorAs(t, err, &derr, name)
		require.Equal(t, name, derr.Format)
	}

	_, err := YAML{}.Parse([]byte("key: [unclosed"))
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
}

func TestFromGoKeyedForms(t *testing.T) {
	n, err := FromGo(map[any]any{"a": 1, "b": "x"})
	require.NoError(t, err)
	require.Equal(t, int64(1), *n.Get("a").Int64)

	_, err = FromGo(map[any]any{3: "bad key"})
	require.Error(t, err)

	n, err = FromGo(json.Number("42"))
	require.NoError(t, err)
	require.Equal(t, int64(42), *n.Int64)

	n, err = FromGo(json.Number("4.5"))
	require.NoError(t, err)
	require.Equal(t, 4.5, *n.Float64)

	_, err = FromGo(struct{}{})
	require.Error(t, err)
}

func TestToGoShapes(t *testing.T) {
	n, err := JSON{}.Parse([]byte(`{"a":[1,2.5,"s",null,true]}`))
	require.NoError(t, err)
	v := ToGo(n).(map[string]any)
	list := v["a"].([]any)
	require.Equal(t, int64(1), list[0])
	require.Equal(t, 2.5, list[1])
	require.Equal(t, "s", list[2])
	require.Nil(t, list[3])
	require.Equal(t, true, list[4])
}
