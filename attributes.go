package modgraph

import (
	"maps"
	"slices"
)

// defaultAttributeMatcher implements exact-value attribute matching: a
// variant is compatible when every requested attribute it declares carries
// the requested value. Attributes a variant does not declare do not count
// against it, but among compatible variants those matching more requested
// attributes are preferred.
type defaultAttributeMatcher struct{}

// NewAttributeMatcher returns the default exact-match attribute matcher.
func NewAttributeMatcher() AttributeMatcher {
	return defaultAttributeMatcher{}
}

func (defaultAttributeMatcher) Match(variants []Variant, requested map[string]string) ([]Variant, error) {
	if len(variants) == 0 {
		return nil, &NoMatchingVariantError{Requested: requested}
	}
	if len(requested) == 0 {
		if len(variants) == 1 {
			return variants, nil
		}
		if d := findVariant(variants, DefaultVariantName); d != nil {
			return []Variant{*d}, nil
		}
		return nil, ambiguous(variants, requested)
	}

	var compatible []Variant
	bestScore := -1
	for _, v := range variants {
		score, ok := matchScore(v, requested)
		if !ok {
			continue
		}
		switch {
		case score > bestScore:
			bestScore = score
			compatible = compatible[:0]
			compatible = append(compatible, v)
		case score == bestScore:
			compatible = append(compatible, v)
		}
	}
	switch len(compatible) {
	case 0:
		return nil, &NoMatchingVariantError{
			Requested: maps.Clone(requested),
			Available: variantNames(variants),
		}
	case 1:
		return compatible, nil
	default:
		return nil, ambiguous(compatible, requested)
	}
}

// matchScore reports how many requested attributes the variant declares with
// the requested value, and whether it declares none with a different value.
func matchScore(v Variant, requested map[string]string) (int, bool) {
	score := 0
	for k, want := range requested {
		got, ok := v.Attributes[k]
		if !ok {
			continue
		}
		if got != want {
			return 0, false
		}
		score++
	}
	return score, true
}

func ambiguous(matches []Variant, requested map[string]string) error {
	return &AmbiguousVariantError{
		Requested: maps.Clone(requested),
		Matches:   variantNames(matches),
	}
}

func findVariant(variants []Variant, name string) *Variant {
	for i := range variants {
		if variants[i].Name == name {
			return &variants[i]
		}
	}
	return nil
}

func variantNames(variants []Variant) []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	slices.Sort(names)
	return names
}

// mergeAttributes overlays a declaration's attributes on the root's
// requested attributes; declaration values win on collision.
func mergeAttributes(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(overlay))
	maps.Copy(merged, base)
	maps.Copy(merged, overlay)
	return merged
}
