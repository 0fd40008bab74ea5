// Package version implements parsing and precedence ordering for component
// version strings.
//
// Version format: RELEASE[-PRERELEASE][+BUILD]
//   - RELEASE: dot-separated segments (alphanumeric, no hyphens)
//   - PRERELEASE: dot-separated segments (alphanumeric and hyphens allowed)
//   - BUILD: ignored for ordering purposes
//
// The package also recognizes dynamic requirements ("1.+", "+", "latest",
// and the empty string), which match a range of concrete versions instead
// of pinning a single one.
package version

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// segment is one dot-separated piece of a version string. Numeric segments
// order by value and sort before every non-numeric segment; non-numeric
// segments order lexicographically.
type segment struct {
	num     uint64
	str     string
	numeric bool
}

func newSegment(s string) segment {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil && s != "" {
		return segment{num: n, str: s, numeric: true}
	}
	return segment{str: s}
}

func (a segment) compare(b segment) int {
	switch {
	case a.numeric && b.numeric:
		return cmp.Compare(a.num, b.num)
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	}
	return strings.Compare(a.str, b.str)
}

// ParsedVersion is the result of Parse. The zero value is not meaningful;
// use Parse to construct one.
type ParsedVersion struct {
	release    []segment
	prerelease []segment
	norm       string
	empty      bool
}

// String returns the version with any build metadata stripped.
func (v ParsedVersion) String() string { return v.norm }

// Parse parses a version string into its components.
// The empty string parses to an empty version, which orders higher than
// every concrete version (an unversioned candidate outranks versioned ones).
func Parse(s string) (ParsedVersion, error) {
	if s == "" {
		return ParsedVersion{empty: true}, nil
	}

	rest := s
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		if err := checkChars(rest[i+1:], true); err != nil {
			return ParsedVersion{}, &ParseError{Version: s, Message: err.Error()}
		}
		rest = rest[:i]
	}

	release := rest
	pre := ""
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		release, pre = rest[:i], rest[i+1:]
	}

	if release == "" {
		return ParsedVersion{}, &ParseError{Version: s, Message: "empty release part"}
	}
	if err := checkChars(release, false); err != nil {
		return ParsedVersion{}, &ParseError{Version: s, Message: err.Error()}
	}
	if err := checkChars(pre, true); err != nil {
		return ParsedVersion{}, &ParseError{Version: s, Message: err.Error()}
	}

	v := ParsedVersion{norm: rest}
	for _, part := range strings.Split(release, ".") {
		v.release = append(v.release, newSegment(part))
	}
	if pre != "" {
		for _, part := range strings.Split(pre, ".") {
			v.prerelease = append(v.prerelease, newSegment(part))
		}
	}
	return v, nil
}

// checkChars validates one part of a version string: letters, digits and
// dots, plus hyphens when allowHyphen is set (prerelease and build parts).
func checkChars(s string, allowHyphen bool) error {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '.':
		case c == '-' && allowHyphen:
		default:
			return &ParseError{Message: "invalid character " + strconv.QuoteRune(rune(c))}
		}
	}
	return nil
}

// ParseError represents a version parsing error.
type ParseError struct {
	Version string
	Message string
}

func (e *ParseError) Error() string {
	if e.Version == "" {
		return e.Message
	}
	return "bad version " + e.Version + ": " + e.Message
}

// Comparator orders two version strings.
// Returns a negative value if a has lower precedence than b, zero if
// equal, and a positive value if a has higher precedence.
type Comparator func(a, b string) int

// Compare is the default precedence order.
//
// Order:
//  1. Empty versions sort last (highest precedence)
//  2. Release segments, lexicographic over segments
//  3. Prerelease versions sort before their release
//  4. Prerelease segments, lexicographic over segments
//
// Unparseable versions fall back to plain string comparison.
func Compare(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)

	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}

	if va.empty || vb.empty {
		switch {
		case va.empty && vb.empty:
			return 0
		case va.empty:
			return 1
		}
		return -1
	}

	if c := compareSegments(va.release, vb.release); c != 0 {
		return c
	}

	aPre, bPre := len(va.prerelease) > 0, len(vb.prerelease) > 0
	if aPre != bPre {
		if aPre {
			return -1
		}
		return 1
	}
	return compareSegments(va.prerelease, vb.prerelease)
}

func compareSegments(a, b []segment) int {
	for i := 0; i < min(len(a), len(b)); i++ {
		if c := a[i].compare(b[i]); c != 0 {
			return c
		}
	}
	// Shorter list is less (lexicographic)
	return cmp.Compare(len(a), len(b))
}

// CompareGoSemver orders versions by Go semver precedence
// (golang.org/x/mod/semver). Versions without the "v" prefix are
// normalized before comparison. Falls back to Compare when either
// version is not valid semver.
func CompareGoSemver(a, b string) int {
	ca, cb := canonicalSemver(a), canonicalSemver(b)
	if ca == "" || cb == "" {
		return Compare(a, b)
	}
	return semver.Compare(ca, cb)
}

func canonicalSemver(s string) string {
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return ""
	}
	return s
}

// Sort sorts a slice of version strings in ascending precedence order.
func Sort(versions []string) {
	slices.SortFunc(versions, Compare)
}

// Max returns the highest-precedence version under the given comparator,
// or the empty string for empty input. A nil comparator means Compare.
func Max(versions []string, compare Comparator) string {
	if compare == nil {
		compare = Compare
	}
	best := ""
	for i, v := range versions {
		if i == 0 || compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

// IsDynamic reports whether a requirement string selects a range of
// versions rather than pinning exactly one. Dynamic forms are the empty
// string, "latest", "+", and prefix requirements such as "1.+".
func IsDynamic(requirement string) bool {
	switch requirement {
	case "", "latest", "+":
		return true
	}
	return strings.HasSuffix(requirement, ".+")
}

// Matches reports whether the concrete version v satisfies the
// requirement. An exact requirement matches only itself; "latest", "+"
// and the empty string match everything; "1.+" matches any version in
// the 1.x release line.
func Matches(requirement, v string) bool {
	switch requirement {
	case "", "latest", "+":
		return true
	}
	if prefix, ok := strings.CutSuffix(requirement, "+"); ok {
		return strings.HasPrefix(v, prefix)
	}
	return requirement == v
}
