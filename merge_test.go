package driftfile_test

import (
	"testing"

	"github.com/driftfile/driftfile"
	"github.com/driftfile/driftfile/ir"
)

func TestMerge(t *testing.T) {
	for _, tc := range []struct {
		name  string
		base  string
		delta string // "" means nil delta
		want  string
	}{
		{
			name: "nil-delta-keeps-base",
			base: `{"a":1,"b":[2]}`,
			want: `{"a":1,"b":[2]}`,
		},
		{
			name:  "scalar-replace",
			base:  `{"a":1}`,
			delta: `{"a":2}`,
			want:  `{"a":2}`,
		},
		{
			name:  "deep-merge-keeps-siblings",
			base:  `{"audio":{"volume":1.0,"muted":false},"video":{"scale":2}}`,
			delta: `{"audio":{"volume":0.5}}`,
			want:  `{"audio":{"volume":0.5,"muted":false},"video":{"scale":2}}`,
		},
		{
			name:  "delta-only-key-inserted",
			base:  `{"a":1}`,
			delta: `{"b":{"x":true}}`,
			want:  `{"a":1,"b":{"x":true}}`,
		},
		{
			name:  "sequence-replaced-wholesale",
			base:  `{"l":[1,2,3]}`,
			delta: `{"l":[9]}`,
			want:  `{"l":[9]}`,
		},
		{
			name:  "type-mismatch-delta-wins",
			base:  `{"a":{"x":1}}`,
			delta: `{"a":"flat"}`,
			want:  `{"a":"flat"}`,
		},
		{
			name:  "null-base-key-takes-delta",
			base:  `{"a":null}`,
			delta: `{"a":{"x":1}}`,
			want:  `{"a":{"x":1}}`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			base := parse(t, tc.base)
			var delta *ir.Node
			if tc.delta != "" {
				delta = parse(t, tc.delta)
			}
			got := driftfile.Merge(base, delta)
			want := parse(t, tc.want)
			if !ir.Equal(got, want) {
				t.Errorf("merge mismatch\n got: %v\nwant: %v", got, want)
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := parse(t, `{"a":{"x":1},"b":2}`)
	delta := parse(t, `{"a":{"x":9}}`)
	baseCopy := base.Clone()
	deltaCopy := delta.Clone()

	driftfile.Merge(base, delta)

	if !ir.Equal(base, baseCopy) {
		t.Error("merge mutated the baseline")
	}
	if !ir.Equal(delta, deltaCopy) {
		t.Error("merge mutated the delta")
	}
}
