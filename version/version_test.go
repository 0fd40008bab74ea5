package version

import (
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "2.0", -1},
		{"2.0", "1.0", 1},
		{"1.2", "1.10", -1},
		{"1.0.1", "1.0", 1},
		{"1.0-alpha", "1.0", -1},
		{"1.0-alpha", "1.0-beta", -1},
		{"1.0-rc1", "1.0-rc2", -1},
		{"1.0.0", "1.0", 1},
		{"", "9.9", 1},
		{"", "", 0},
		{"abc", "abd", -1},
		{"1.1", "1.a", -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); sign(got) != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
		if got := Compare(tt.b, tt.a); sign(got) != -tt.want {
			t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.b, tt.a, got, -tt.want)
		}
	}
}

func TestCompareGoSemver(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.2.3", "1.10.0", -1},
		{"v1.2.3", "1.2.4", -1},
		{"2.0.0-rc.1", "2.0.0", -1},
	}
	for _, tt := range tests {
		if got := CompareGoSemver(tt.a, tt.b); sign(got) != tt.want {
			t.Errorf("CompareGoSemver(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	versions := []string{"2.0", "1.0", "1.10", "1.2", "1.0-alpha"}
	Sort(versions)
	want := []string{"1.0-alpha", "1.0", "1.2", "1.10", "2.0"}
	if !slices.Equal(versions, want) {
		t.Errorf("Sort = %v, want %v", versions, want)
	}
}

func TestMax(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		want     string
	}{
		{"empty", nil, ""},
		{"single", []string{"1.0"}, "1.0"},
		{"picks highest", []string{"1.0", "2.0", "1.5"}, "2.0"},
		{"numeric over lexicographic", []string{"1.9", "1.10"}, "1.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Max(tt.versions, nil); got != tt.want {
				t.Errorf("Max(%v) = %q, want %q", tt.versions, got, tt.want)
			}
		})
	}
}

func TestIsDynamic(t *testing.T) {
	tests := []struct {
		requirement string
		want        bool
	}{
		{"", true},
		{"latest", true},
		{"+", true},
		{"1.+", true},
		{"1.2.+", true},
		{"1.0", false},
		{"1.0-rc1", false},
	}
	for _, tt := range tests {
		if got := IsDynamic(tt.requirement); got != tt.want {
			t.Errorf("IsDynamic(%q) = %v, want %v", tt.requirement, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		requirement string
		version     string
		want        bool
	}{
		{"1.0", "1.0", true},
		{"1.0", "1.1", false},
		{"", "0.1", true},
		{"latest", "3.0", true},
		{"+", "3.0", true},
		{"1.+", "1.0", true},
		{"1.+", "1.15", true},
		{"1.+", "2.0", false},
		{"1.+", "10.0", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.requirement, tt.version); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.requirement, tt.version, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("1.0 beta"); err == nil {
		t.Error("Parse(\"1.0 beta\") succeeded, want error")
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
