package envconfig

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultFormat renders effects as POSIX shell statements suitable for
// eval "$(spkg env FILE)".
const DefaultFormat = `{{range .}}{{if .Unset}}unset {{.Key}}{{else}}export {{.Key}}={{shquote .Value}}{{end}}
{{end}}`

// Render executes format (DefaultFormat if empty) over effects. Templates
// have the sprig functions plus shquote available.
func Render(w io.Writer, effects []Effect, format string) error {
	if format == "" {
		format = DefaultFormat
	}
	funcs := sprig.TxtFuncMap()
	funcs["shquote"] = shquote
	tmpl, err := template.New("env").Funcs(funcs).Parse(format)
	if err != nil {
		return fmt.Errorf("envconfig: format: %w", err)
	}
	return tmpl.Execute(w, effects)
}

// shquote quotes s for POSIX shells.
func shquote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
