package versions

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// FileName is the name of the file holding a package's version.
const FileName = "package-version.txt"

// Version is a distribution package version: the upstream version plus an
// optional ".pN" patch level added by the distribution.
type Version struct {
	Upstream string
	Patch    int
	Patched  bool // version carried an explicit ".pN" suffix
}

func (v Version) String() string {
	if !v.Patched {
		return v.Upstream
	}
	return v.Upstream + ".p" + strconv.Itoa(v.Patch)
}

// Parse parses a version such as "3.5.4.p0". The upstream part must be
// dotted numeric.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	v := Version{Upstream: s}
	if i := strings.LastIndex(s, ".p"); i > 0 {
		if n, err := strconv.Atoi(s[i+2:]); err == nil && strings.Trim(s[i+2:], "0123456789") == "" {
			v = Version{Upstream: s[:i], Patch: n, Patched: true}
		}
	}
	if !validUpstream(v.Upstream) {
		return Version{}, fmt.Errorf("versions: invalid version %q", s)
	}
	return v, nil
}

// validUpstream reports whether s is dotted numeric. Up to three fields
// must also form a valid semver core ("3.5.4", "20080411").
func validUpstream(s string) bool {
	fields := strings.Split(s, ".")
	for _, f := range fields {
		if f == "" || strings.Trim(f, "0123456789") != "" {
			return false
		}
	}
	if len(fields) <= 3 {
		return semver.IsValid("v" + s)
	}
	return true
}

// ReadFile reads the version from the first non-empty line of file. If data
// is non-nil it is parsed instead of reading file.
func ReadFile(file string, data []byte) (Version, error) {
	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return Version{}, err
		}
		defer f.Close()
		reader = f
	}

	sc := bufio.NewScanner(reader)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return Parse(line)
		}
	}
	if err := sc.Err(); err != nil {
		return Version{}, err
	}
	return Version{}, fmt.Errorf("versions: %s: no version found", file)
}
