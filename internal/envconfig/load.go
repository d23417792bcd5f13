package envconfig

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/goplus/spkg/internal/env"
	"github.com/qiniu/x/log"
)

// Load reads a file written by [Generate] back into a Config. Only the
// top-level export lines are interpreted; the Python 3 marker is derived
// from the version tag, not read.
func Load(r io.Reader) (Config, error) {
	var c Config
	fields := map[string]*string{
		env.Prefix:        &c.Prefix,
		env.CC:            &c.CC,
		env.CXX:           &c.CXX,
		env.FC:            &c.FC,
		env.OBJC:          &c.OBJC,
		env.OBJCXX:        &c.OBJCXX,
		env.PythonVersion: &c.PythonVersion,
	}

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "export ")
		if !ok {
			continue
		}
		key, val, ok := strings.Cut(strings.TrimSpace(rest), "=")
		if !ok {
			return Config{}, fmt.Errorf("envconfig: line %d: missing '=' in %q", lineno, line)
		}
		if key == env.Python3 {
			continue
		}
		p, known := fields[key]
		if !known {
			log.Debugf("envconfig: line %d: ignoring export of %s", lineno, key)
			continue
		}
		v, err := unquote(val)
		if err != nil {
			return Config{}, fmt.Errorf("envconfig: line %d: %w", lineno, err)
		}
		*p = v
	}
	if err := sc.Err(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func unquote(s string) (string, error) {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1], nil
		}
	}
	if strings.ContainsAny(s, "\"' \t") {
		return "", fmt.Errorf("malformed value %s", s)
	}
	return s, nil
}
