// Package env names the environment variables shared by the installer and
// the exporter, and converts between os.Environ slices and maps.
package env

import (
	"errors"
	"os"
	"sort"
	"strings"
)

// Variables exported by the generated environment file.
const (
	Prefix        = "SAGE_LOCAL"
	CC            = "CC"
	CXX           = "CXX"
	FC            = "FC"
	OBJC          = "OBJC"
	OBJCXX        = "OBJCXX"
	PythonVersion = "SAGE_PYTHON_VERSION"
	Python3       = "SAGE_PYTHON3"
)

// Make names the variable holding the make command (and its arguments).
const Make = "MAKE"

// ErrPrefixUnset reports that the installation prefix variable is empty.
var ErrPrefixUnset = errors.New(Prefix + " undefined")

// Environ returns the process environment as a map.
func Environ() map[string]string {
	return FromList(os.Environ())
}

// FromList converts KEY=VALUE pairs to a map. Later pairs win.
func FromList(list []string) map[string]string {
	m := make(map[string]string, len(list))
	for _, kv := range list {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}
	return m
}

// List converts m to KEY=VALUE pairs sorted by key.
func List(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

// Merge returns a new map holding base with every key in overrides replaced
// or added. Neither argument is modified.
func Merge(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// PrefixOf returns the installation prefix recorded in environ.
func PrefixOf(environ map[string]string) (string, error) {
	if p := environ[Prefix]; p != "" {
		return p, nil
	}
	return "", ErrPrefixUnset
}
