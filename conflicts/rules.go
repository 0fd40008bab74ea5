package conflicts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Replacement is one entry in the module replacement table.
type Replacement struct {
	// Target is the module that replaces the source module.
	Target string

	// Reason is an optional human-readable reason, carried into the
	// "selected by rule" cause on the winning component.
	Reason string
}

// Rules is the static module replacement table, mapping a module to the
// module that replaces it. It is consulted at candidate registration (to
// link conflicting modules) and at conflict resolution (to attribute
// replacement causes).
type Rules struct {
	bySource map[string]Replacement
}

// NewRules creates an empty replacement table.
func NewRules() *Rules {
	return &Rules{bySource: make(map[string]Replacement)}
}

// Add records that module source is replaced by target. Replacement is a
// single hop: chains are not followed.
func (r *Rules) Add(source, target, reason string) error {
	if source == "" || target == "" {
		return fmt.Errorf("replacement rule needs both source and target module")
	}
	if source == target {
		return fmt.Errorf("module %s cannot replace itself", source)
	}
	if rep, ok := r.bySource[target]; ok {
		return fmt.Errorf("replacement chain %s -> %s -> %s is not allowed", source, target, rep.Target)
	}
	for src, rep := range r.bySource {
		if rep.Target == source {
			return fmt.Errorf("replacement chain %s -> %s -> %s is not allowed", src, source, target)
		}
	}
	r.bySource[source] = Replacement{Target: target, Reason: reason}
	return nil
}

// ReplacementFor returns the replacement entry for a module, if any.
func (r *Rules) ReplacementFor(module string) (Replacement, bool) {
	rep, ok := r.bySource[module]
	return rep, ok
}

type rulesFile struct {
	Replacements []ruleEntry `yaml:"replacements"`
}

type ruleEntry struct {
	Module     string `yaml:"module"`
	ReplacedBy string `yaml:"replaced_by"`
	Reason     string `yaml:"reason,omitempty"`
}

// ParseRules builds a replacement table from YAML of the form:
//
//	replacements:
//	  - module: com.example:old
//	    replaced_by: com.example:new
//	    reason: old coordinates are no longer published
func ParseRules(data []byte) (*Rules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse replacement rules: %w", err)
	}
	rules := NewRules()
	for _, entry := range file.Replacements {
		if err := rules.Add(entry.Module, entry.ReplacedBy, entry.Reason); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// LoadRules reads a replacement rules YAML file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replacement rules: %w", err)
	}
	return ParseRules(data)
}
