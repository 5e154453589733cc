package pathtemplate_test

import (
	"errors"
	"testing"

	"shotexport/internal/pathtemplate"
	"shotexport/internal/services"
)

func TestBracesResolve(t *testing.T) {
	tokens := pathtemplate.Tokens{
		Project:  "falcon",
		Sequence: "sq010",
		Shot:     "sh0100",
		Track:    "BG plate",
		Version:  "v001",
		Ext:      ".exr",
	}
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "plate template",
			template: "{sequence}/{shot}/plates/{track}/{shot}_{track}_{version}.%04d.{ext}",
			want:     "sq010/sh0100/plates/BG_plate/sh0100_BG_plate_v001.%04d.exr",
		},
		{
			name:     "script template",
			template: "{project}/{sequence}/{shot}/nuke/{shot}_comp.{version}.nk",
			want:     "falcon/sq010/sh0100/nuke/sh0100_comp.v001.nk",
		},
		{
			name:     "backslashes become forward slashes",
			template: "{sequence}\\{shot}\\{shot}.nk",
			want:     "sq010/sh0100/sh0100.nk",
		},
		{
			name:     "no tokens",
			template: "static/path.nk",
			want:     "static/path.nk",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pathtemplate.Braces{}.Resolve(tokens, tc.template)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBracesResolveRejectsBadTemplates(t *testing.T) {
	for _, template := range []string{"", "{shot}/{unknown}.nk", "{shot"} {
		_, err := pathtemplate.Braces{}.Resolve(pathtemplate.Tokens{Shot: "sh0100"}, template)
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("template %q: expected validation error, got %v", template, err)
		}
	}
}

func TestExt(t *testing.T) {
	cases := map[string]string{
		"/plates/a.####.exr":     "exr",
		"C:\\plates\\a.%04d.dpx": "dpx",
		"/plates/noext":          "",
	}
	for in, want := range cases {
		if got := pathtemplate.Ext(in); got != want {
			t.Errorf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}
