package modgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAttributeMatcher(t *testing.T) {
	api := Variant{Name: "api", Attributes: map[string]string{"usage": "api"}}
	runtime := Variant{Name: "runtime", Attributes: map[string]string{"usage": "runtime"}}
	linuxRuntime := Variant{
		Name:       "runtime-linux",
		Attributes: map[string]string{"usage": "runtime", "os": "linux"},
	}
	plain := Variant{Name: "default"}

	m := NewAttributeMatcher()
	tests := []struct {
		name      string
		variants  []Variant
		requested map[string]string
		want      []string
		wantErr   error
	}{
		{
			name:      "exact match",
			variants:  []Variant{api, runtime},
			requested: map[string]string{"usage": "api"},
			want:      []string{"api"},
		},
		{
			name:      "more specific variant preferred",
			variants:  []Variant{runtime, linuxRuntime},
			requested: map[string]string{"usage": "runtime", "os": "linux"},
			want:      []string{"runtime-linux"},
		},
		{
			name:      "undeclared attribute leaves variants tied",
			variants:  []Variant{plain, api},
			requested: map[string]string{"os": "linux"},
			wantErr:   &AmbiguousVariantError{},
		},
		{
			name:     "no attributes single variant",
			variants: []Variant{api},
			want:     []string{"api"},
		},
		{
			name:     "no attributes falls back to default",
			variants: []Variant{api, plain},
			want:     []string{"default"},
		},
		{
			name:     "no attributes many variants ambiguous",
			variants: []Variant{api, runtime},
			wantErr:  &AmbiguousVariantError{},
		},
		{
			name:      "conflicting value disqualifies",
			variants:  []Variant{api},
			requested: map[string]string{"usage": "runtime"},
			wantErr:   &NoMatchingVariantError{},
		},
		{
			name:    "no variants at all",
			wantErr: &NoMatchingVariantError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(tt.variants, tt.requested)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("Match succeeded with %v, want error", variantNames(got))
				}
				switch tt.wantErr.(type) {
				case *AmbiguousVariantError:
					var ambiguous *AmbiguousVariantError
					if !errors.As(err, &ambiguous) {
						t.Errorf("error = %v, want AmbiguousVariantError", err)
					}
				case *NoMatchingVariantError:
					var none *NoMatchingVariantError
					if !errors.As(err, &none) {
						t.Errorf("error = %v, want NoMatchingVariantError", err)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			names := make([]string, len(got))
			for i, v := range got {
				names[i] = v.Name
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeAttributes(t *testing.T) {
	base := map[string]string{"os": "linux", "usage": "api"}
	overlay := map[string]string{"usage": "runtime"}
	got := mergeAttributes(base, overlay)
	want := map[string]string{"os": "linux", "usage": "runtime"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mergeAttributes mismatch (-want +got):\n%s", diff)
	}
	if base["usage"] != "api" {
		t.Error("mergeAttributes mutated its input")
	}
}

func TestResolveVariantSelection(t *testing.T) {
	root := &ComponentMetadata{
		ID: ComponentID{Module: "app", Version: "1.0"},
		Variants: []Variant{{
			Name:         "main",
			Dependencies: []Declaration{dep("lib", "1.0")},
		}},
	}
	source := NewMapSource(&ComponentMetadata{
		ID: ComponentID{Module: "lib", Version: "1.0"},
		Variants: []Variant{
			{Name: "api", Attributes: map[string]string{"usage": "api"}},
			{
				Name:         "runtime",
				Attributes:   map[string]string{"usage": "runtime"},
				Dependencies: []Declaration{dep("impl", "1.0")},
			},
		},
	})
	source.Add(md("impl", "1.0"))

	result := resolve(t, root, source, Options{
		RequestedAttributes: map[string]string{"usage": "runtime"},
	})

	if n := result.Graph.Node("lib@1.0/runtime"); n == nil {
		t.Error("runtime variant of lib not selected")
	}
	if n := result.Graph.Node("lib@1.0/api"); n != nil {
		t.Error("api variant of lib selected alongside runtime")
	}
	if _, ok := selectedVersions(t, result)["impl"]; !ok {
		t.Error("runtime variant's dependency impl missing")
	}
}

func TestResolveDeclarationAttributesOverrideRoot(t *testing.T) {
	root := &ComponentMetadata{
		ID: ComponentID{Module: "app", Version: "1.0"},
		Variants: []Variant{{
			Name: "main",
			Dependencies: []Declaration{{
				Module:     "lib",
				Version:    "1.0",
				Attributes: map[string]string{"usage": "api"},
			}},
		}},
	}
	source := NewMapSource(&ComponentMetadata{
		ID: ComponentID{Module: "lib", Version: "1.0"},
		Variants: []Variant{
			{Name: "api", Attributes: map[string]string{"usage": "api"}},
			{Name: "runtime", Attributes: map[string]string{"usage": "runtime"}},
		},
	})

	result := resolve(t, root, source, Options{
		RequestedAttributes: map[string]string{"usage": "runtime"},
	})
	if n := result.Graph.Node("lib@1.0/api"); n == nil {
		t.Error("declaration attributes did not override the root's requested attributes")
	}
}

func TestResolveAmbiguousVariantIsolated(t *testing.T) {
	root := md("app", "1.0", dep("lib", "1.0"), dep("other", "1.0"))
	source := NewMapSource(
		&ComponentMetadata{
			ID: ComponentID{Module: "lib", Version: "1.0"},
			Variants: []Variant{
				{Name: "a", Attributes: map[string]string{"x": "1"}},
				{Name: "b", Attributes: map[string]string{"y": "2"}},
			},
		},
		md("other", "1.0"),
	)
	result := resolve(t, root, source, Options{})

	if _, ok := selectedVersions(t, result)["other"]; !ok {
		t.Error("other missing: variant failure was not isolated")
	}
	if len(result.Report.Failures) != 1 {
		t.Fatalf("failures = %+v, want exactly one", result.Report.Failures)
	}
	var vf *VariantSelectionFailure
	if !errors.As(result.Report.Failures[0].Err, &vf) {
		t.Errorf("failure = %v, want VariantSelectionFailure", result.Report.Failures[0].Err)
	}
}
