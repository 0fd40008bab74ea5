package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	modgraph "github.com/modgraph/go-modgraph"
)

func writeUniverse(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "universe.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUniverse(t *testing.T) {
	path := writeUniverse(t, `
root: app@1.0
components:
  - module: app
    version: "1.0"
    variants:
      - name: default
        dependencies:
          - module: lib
            version: "1.+"
            excludes: [dropme]
            transitive: false
  - module: lib
    version: "1.5"
`)
	u, err := loadUniverse(path)
	if err != nil {
		t.Fatal(err)
	}
	if u.rootID != (modgraph.ComponentID{Module: "app", Version: "1.0"}) {
		t.Errorf("rootID = %v", u.rootID)
	}

	md, err := u.source.Lookup(context.Background(), u.rootID)
	if err != nil {
		t.Fatal(err)
	}
	decl := md.Variants[0].Dependencies[0]
	if decl.Module != "lib" || decl.Version != "1.+" {
		t.Errorf("declaration = %+v", decl)
	}
	if !decl.NonTransitive {
		t.Error("transitive: false not honored")
	}
	if len(decl.Excludes) != 1 || decl.Excludes[0].Module != "dropme" {
		t.Errorf("excludes = %+v", decl.Excludes)
	}

	versions, err := u.source.Versions(context.Background(), "lib")
	if err != nil || len(versions) != 1 || versions[0] != "1.5" {
		t.Errorf("Versions(lib) = %v, %v", versions, err)
	}
}

func TestLoadUniverseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "components: []"},
		{"missing version", "components:\n  - module: a"},
		{"bad yaml", ":\n -"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadUniverse(writeUniverse(t, tt.content)); err == nil {
				t.Error("loadUniverse succeeded, want error")
			}
		})
	}
}

func TestParseAttrs(t *testing.T) {
	attrs, err := parseAttrs([]string{"usage=api", "os=linux"})
	if err != nil {
		t.Fatal(err)
	}
	if attrs["usage"] != "api" || attrs["os"] != "linux" {
		t.Errorf("attrs = %v", attrs)
	}
	if _, err := parseAttrs([]string{"novalue"}); err == nil {
		t.Error("parseAttrs accepted a pair without '='")
	}
}

func TestParseComponentID(t *testing.T) {
	id, err := parseComponentID("lib@2.0")
	if err != nil || id.Module != "lib" || id.Version != "2.0" {
		t.Errorf("parseComponentID = %v, %v", id, err)
	}
	for _, bad := range []string{"lib", "@1.0", "lib@"} {
		if _, err := parseComponentID(bad); err == nil {
			t.Errorf("parseComponentID(%q) succeeded, want error", bad)
		}
	}
}
