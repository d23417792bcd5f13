// Package module defines the module.Version type along with support code.
package module

import (
	"fmt"
	"strings"
)

// A Version identifies a specific version of a distribution package.
type Version struct {
	Name    string // Package name, e.g. "normaliz"
	Version string // Version string (e.g., "3.5.4.p0")
}

// String returns the "name-version" form used for package directories and
// tarballs. A Version without version string is just its name.
func (v Version) String() string {
	if v.Version == "" {
		return v.Name
	}
	return v.Name + "-" + v.Version
}

// Parse splits "name-version" at the last dash that is followed by a digit.
// Package names may themselves contain dashes ("pari-galdata").
func Parse(s string) (Version, error) {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '-' && i+1 < len(s) && isDigit(s[i+1]) {
			return Version{Name: s[:i], Version: s[i+1:]}, nil
		}
	}
	if s == "" || strings.ContainsAny(s, " \t/") {
		return Version{}, fmt.Errorf("module: invalid package %q", s)
	}
	return Version{Name: s}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
