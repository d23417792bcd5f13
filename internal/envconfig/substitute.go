package envconfig

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
)

var placeholder = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)@`)

// UnresolvedError lists placeholders that had no value.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return "envconfig: unresolved placeholders: @" + strings.Join(e.Names, "@, @") + "@"
}

// Substitute replaces every @NAME@ token in tmpl with values[NAME] in a
// single pass; replaced text is never rescanned. A token without a value is
// an error so that the template and the values stay in lockstep.
func Substitute(tmpl []byte, values map[string]string) ([]byte, error) {
	var missing []string
	out := placeholder.ReplaceAllFunc(tmpl, func(m []byte) []byte {
		name := string(m[1 : len(m)-1])
		v, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return []byte(v)
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &UnresolvedError{Names: slices.Compact(missing)}
	}
	return out, nil
}

// Placeholders returns the sorted, distinct placeholder names in tmpl.
func Placeholders(tmpl []byte) []string {
	var names []string
	for _, m := range placeholder.FindAllSubmatch(tmpl, -1) {
		names = append(names, string(m[1]))
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Generate writes the environment file for c, substituted from Template.
func Generate(w io.Writer, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	out, err := Substitute(Template, c.Values())
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("envconfig: write: %w", err)
	}
	return nil
}
