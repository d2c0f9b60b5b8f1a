// SPDX-License-Identifier: MPL-2.0

package loaders

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecoders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		module string
		file   string
		data   string
		want   map[string]any
	}{
		{
			name:   "json",
			module: ModuleJSON,
			file:   "a.json",
			data:   `{"extends": "./b", "nested": {"k": "v"}}`,
			want:   map[string]any{"extends": "./b", "nested": map[string]any{"k": "v"}},
		},
		{
			name:   "yaml",
			module: ModuleYAML,
			file:   "a.yaml",
			data:   "extends:\n  - ./b\n  - ./c\nnested:\n  k: v\n",
			want:   map[string]any{"extends": []any{"./b", "./c"}, "nested": map[string]any{"k": "v"}},
		},
		{
			name:   "toml",
			module: ModuleTOML,
			file:   "a.toml",
			data:   "extends = \"./b\"\n[nested]\nk = \"v\"\n",
			want:   map[string]any{"extends": "./b", "nested": map[string]any{"k": "v"}},
		},
		{
			name:   "toml burntsushi",
			module: ModuleBurntSushiTOML,
			file:   "a.toml",
			data:   "extends = [\"./b\"]\n[nested]\nk = \"v\"\n",
			want:   map[string]any{"extends": []any{"./b"}, "nested": map[string]any{"k": "v"}},
		},
		{
			name:   "cue",
			module: ModuleCUE,
			file:   "a.cue",
			data:   "extends: \"./b\"\nnested: k: \"v\"\n",
			want:   map[string]any{"extends": "./b", "nested": map[string]any{"k": "v"}},
		},
		{
			name:   "hcl",
			module: ModuleHCL,
			file:   "a.hcl",
			data:   "extends = [\"./b\"]\nnested = { k = \"v\" }\n",
			want:   map[string]any{"extends": []any{"./b"}, "nested": map[string]any{"k": "v"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec, err := Builtins()[tt.module]("")
			if err != nil {
				t.Fatalf("import %s: %v", tt.module, err)
			}
			got, err := dec.Decode(tt.file, []byte(tt.data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecoders_InvalidInput(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		ModuleJSON:           `{"a":`,
		ModuleYAML:           "a: [1, 2\n",
		ModuleTOML:           "a = \n",
		ModuleBurntSushiTOML: "a = \n",
		ModuleCUE:            "a: {\n",
		ModuleHCL:            "a = \n",
	}
	for module, data := range inputs {
		dec, err := Builtins()[module]("")
		if err != nil {
			t.Fatalf("import %s: %v", module, err)
		}
		if _, err := dec.Decode("broken", []byte(data)); err == nil {
			t.Errorf("%s: expected decode error", module)
		}
	}
}

func TestNormalizeYAMLKeys(t *testing.T) {
	t.Parallel()

	in := map[any]any{1: "one", "list": []any{map[any]any{true: "yes"}}}
	want := map[string]any{"1": "one", "list": []any{map[string]any{"true": "yes"}}}
	if diff := cmp.Diff(want, normalize(in)); diff != "" {
		t.Errorf("normalize() mismatch (-want +got):\n%s", diff)
	}
}
