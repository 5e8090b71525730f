// Package semver parses and orders the version identifiers used by the
// release manifest. The accepted grammar is MAJOR.MINOR.PATCH with an
// optional pre-release label of dot-separated identifiers drawn from
// "alpha", "beta", or decimal numbers (e.g. 0.7.0-beta.1).
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = fmt.Errorf("invalid version")

// Version is an immutable semantic version identifier.
type Version struct {
	Major, Minor, Patch int
	// Pre holds the pre-release identifiers in order; empty for a final release.
	Pre []string
}

// Parse parses text into a Version. A leading "v" is accepted and dropped.
func Parse(text string) (Version, error) {
	s := strings.TrimPrefix(strings.TrimSpace(text), "v")
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalid)
	}
	core := s
	var pre string
	if i := strings.IndexByte(s, '-'); i >= 0 {
		core, pre = s[:i], s[i+1:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q needs MAJOR.MINOR.PATCH", ErrInvalid, text)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := parseNumeric(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalid, text, err)
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
	if pre != "" {
		for _, id := range strings.Split(pre, ".") {
			if err := validatePreID(id); err != nil {
				return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalid, text, err)
			}
			v.Pre = append(v.Pre, id)
		}
	}
	return v, nil
}

func parseNumeric(p string) (int, error) {
	if p == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	if len(p) > 1 && p[0] == '0' {
		return 0, fmt.Errorf("leading zero in %q", p)
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("non-numeric field %q", p)
	}
	return n, nil
}

func validatePreID(id string) error {
	if id == "alpha" || id == "beta" {
		return nil
	}
	if _, err := strconv.Atoi(id); err == nil && id != "" && (len(id) == 1 || id[0] != '0') {
		return nil
	}
	return fmt.Errorf("unknown pre-release identifier %q", id)
}

// IsPrerelease reports whether v carries a pre-release label.
func (v Version) IsPrerelease() bool { return len(v.Pre) > 0 }

// String renders the canonical form, e.g. "0.7.0-beta.1".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Pre) > 0 {
		s += "-" + strings.Join(v.Pre, ".")
	}
	return s
}

// Compare returns -1, 0, or 1 ordering a against b. Numeric fields compare
// numerically; a final release sorts after any pre-release of the same
// triplet; pre-release identifiers compare pairwise, numeric identifiers
// before alphabetic ones.
func Compare(a, b Version) int {
	if c := cmpInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmpInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmpInt(a.Patch, b.Patch); c != 0 {
		return c
	}
	switch {
	case len(a.Pre) == 0 && len(b.Pre) == 0:
		return 0
	case len(a.Pre) == 0:
		return 1
	case len(b.Pre) == 0:
		return -1
	}
	for i := 0; i < len(a.Pre) && i < len(b.Pre); i++ {
		if c := cmpPreID(a.Pre[i], b.Pre[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a.Pre), len(b.Pre))
}

func cmpPreID(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return cmpInt(an, bn)
	case aerr == nil:
		return -1 // numeric identifiers sort before alphabetic ones
	case berr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
