package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	modgraph "github.com/modgraph/go-modgraph"
)

// universeFile is the on-disk shape of a universe: every resolvable
// component with its variants and dependencies, plus an optional default
// root.
type universeFile struct {
	Root       string          `yaml:"root"`
	Components []componentSpec `yaml:"components"`
}

type componentSpec struct {
	Module   string        `yaml:"module"`
	Version  string        `yaml:"version"`
	Variants []variantSpec `yaml:"variants"`
}

type variantSpec struct {
	Name         string            `yaml:"name"`
	Attributes   map[string]string `yaml:"attributes"`
	Dependencies []dependencySpec  `yaml:"dependencies"`
	Artifacts    []string          `yaml:"artifacts"`
}

type dependencySpec struct {
	Module     string            `yaml:"module"`
	Version    string            `yaml:"version"`
	Attributes map[string]string `yaml:"attributes"`
	Excludes   []string          `yaml:"excludes"`
	// Transitive defaults to true when omitted.
	Transitive *bool `yaml:"transitive"`
}

type universe struct {
	source *modgraph.MapSource
	rootID modgraph.ComponentID
}

func loadUniverse(path string) (*universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file universeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse universe %s: %w", path, err)
	}
	if len(file.Components) == 0 {
		return nil, fmt.Errorf("universe %s declares no components", path)
	}

	u := &universe{source: modgraph.NewMapSource()}
	for i, spec := range file.Components {
		if spec.Module == "" || spec.Version == "" {
			return nil, fmt.Errorf("universe %s: component %d needs module and version", path, i)
		}
		u.source.Add(buildComponent(spec))
	}
	if file.Root != "" {
		u.rootID, err = parseComponentID(file.Root)
		if err != nil {
			return nil, fmt.Errorf("universe %s: %w", path, err)
		}
	}
	return u, nil
}

func buildComponent(spec componentSpec) *modgraph.ComponentMetadata {
	md := &modgraph.ComponentMetadata{
		ID: modgraph.ComponentID{Module: spec.Module, Version: spec.Version},
	}
	for _, vs := range spec.Variants {
		v := modgraph.Variant{
			Name:       vs.Name,
			Attributes: vs.Attributes,
			Artifacts:  vs.Artifacts,
		}
		for _, ds := range vs.Dependencies {
			decl := modgraph.Declaration{
				Module:     ds.Module,
				Version:    ds.Version,
				Attributes: ds.Attributes,
			}
			if ds.Transitive != nil && !*ds.Transitive {
				decl.NonTransitive = true
			}
			for _, ex := range ds.Excludes {
				decl.Excludes = append(decl.Excludes, modgraph.Exclude{Module: ex})
			}
			v.Dependencies = append(v.Dependencies, decl)
		}
		md.Variants = append(md.Variants, v)
	}
	return md
}
