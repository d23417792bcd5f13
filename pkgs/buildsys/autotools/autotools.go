// Package autotools wraps the classic configure/make/make-install workflow.
package autotools

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goplus/spkg/internal/env"
	"github.com/goplus/spkg/pkgs/buildsys"
	"github.com/qiniu/x/log"
)

// AutoTools runs an in-tree Autotools build: configure, make and make
// install all run inside the source directory.
type AutoTools struct {
	sourceDir  string
	installDir string
	env        map[string]string

	Stdout io.Writer
	Stderr io.Writer
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New returns an AutoTools whose commands see environ. A nil environ means
// the process environment.
func New(environ map[string]string) *AutoTools {
	if environ == nil {
		environ = env.Environ()
	}
	return &AutoTools{
		sourceDir: ".",
		env:       env.Merge(environ, nil),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Source overrides the source directory.
func (a *AutoTools) Source(dir string) { a.sourceDir = dir }

// InstallDir sets the directory passed to configure as --prefix.
func (a *AutoTools) InstallDir(dir string) { a.installDir = dir }

// Env sets key=value for every command spawned later. The process
// environment is left alone.
func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
}

// Configure runs ./configure inside the source directory.
// --prefix is prepended automatically when installDir is set.
// Extra flags are appended after --prefix.
func (a *AutoTools) Configure(ctx context.Context, args ...string) error {
	script := filepath.Join(a.sourceDir, "configure")
	if err := checkExecutable(script); err != nil {
		return err
	}
	flags := make([]string, 0, 1+len(args))
	if a.installDir != "" {
		flags = append(flags, "--prefix="+a.installDir)
	}
	return a.run(ctx, "./configure", append(flags, args...))
}

// Build runs $MAKE (default "make") with optional extra arguments.
func (a *AutoTools) Build(ctx context.Context, args ...string) error {
	mk := a.Make()
	return a.run(ctx, mk[0], append(mk[1:], args...))
}

// Install runs "$MAKE install" with optional extra arguments appended.
func (a *AutoTools) Install(ctx context.Context, args ...string) error {
	mk := a.Make()
	return a.run(ctx, mk[0], append(append(mk[1:], "install"), args...))
}

// Make returns the make command split into words. $MAKE may carry
// arguments, e.g. "make -j4".
func (a *AutoTools) Make() []string {
	if fields := strings.Fields(a.env[env.Make]); len(fields) > 0 {
		return fields
	}
	return []string{"make"}
}

// OutputDir returns installDir if set, otherwise the source directory.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.sourceDir
}

func (a *AutoTools) run(ctx context.Context, name string, args []string) error {
	log.Debugf("autotools: (cd %s && %s %s)", a.sourceDir, name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = a.sourceDir
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr
	cmd.Env = env.List(a.env)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}
