package semver

import "testing"

func mustParse(t *testing.T, s string) Version {
	t.Helper()
	v, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestParse_Valid(t *testing.T) {
	v := mustParse(t, "0.7.0-beta.1")
	if v.Major != 0 || v.Minor != 7 || v.Patch != 0 {
		t.Fatalf("unexpected triplet: %+v", v)
	}
	if !v.IsPrerelease() {
		t.Fatalf("expected prerelease")
	}
	if v.String() != "0.7.0-beta.1" {
		t.Fatalf("round trip: %s", v.String())
	}
}

func TestParse_AcceptsLeadingV(t *testing.T) {
	v := mustParse(t, "v1.2.3")
	if v.String() != "1.2.3" {
		t.Fatalf("expected 1.2.3, got %s", v.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "1.2", "1.2.3.4", "a.b.c", "1.02.0", "1.2.3-rc.1", "1.2.3-", "1.2.-3"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestCompare_NumericNotLexical(t *testing.T) {
	a := mustParse(t, "0.10.0")
	b := mustParse(t, "0.9.0")
	if Compare(a, b) != 1 {
		t.Fatalf("expected 0.10.0 > 0.9.0")
	}
}

func TestCompare_PrereleaseBeforeFinal(t *testing.T) {
	pre := mustParse(t, "0.7.0-beta.1")
	fin := mustParse(t, "0.7.0")
	if Compare(pre, fin) != -1 {
		t.Fatalf("expected 0.7.0-beta.1 < 0.7.0")
	}
	if Compare(fin, pre) != 1 {
		t.Fatalf("expected 0.7.0 > 0.7.0-beta.1")
	}
}

func TestCompare_PrereleaseOrdering(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"1.0.0-beta.1", "1.0.0-beta.2", -1},
		{"1.0.0-beta", "1.0.0-beta.1", -1},
		{"1.0.0-1", "1.0.0-alpha", -1},
		{"1.0.0", "1.0.0", 0},
	}
	for _, c := range cases {
		got := Compare(mustParse(t, c.a), mustParse(t, c.b))
		if got != c.want {
			t.Fatalf("Compare(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
