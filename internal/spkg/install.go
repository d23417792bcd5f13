// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spkg configures, builds and installs an Autotools package into the
// distribution's installation prefix.
package spkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goplus/spkg/internal/env"
	"github.com/goplus/spkg/pkgs/buildsys"
	"github.com/goplus/spkg/pkgs/buildsys/autotools"
	"github.com/goplus/spkg/pkgs/mod/module"
	"github.com/qiniu/x/log"
)

// Exit codes of the installer.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ErrPrefixUnset reports that SAGE_LOCAL is empty. Nothing has run when it is
// returned.
var ErrPrefixUnset = env.ErrPrefixUnset

// Stage is one step of an installation.
type Stage int

const (
	StageConfigure Stage = iota + 1
	StageBuild
	StageInstall
)

func (s Stage) String() string {
	switch s {
	case StageConfigure:
		return "configure"
	case StageBuild:
		return "build"
	case StageInstall:
		return "install"
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}

func (s Stage) gerund() string {
	switch s {
	case StageConfigure:
		return "configuring"
	case StageBuild:
		return "building"
	case StageInstall:
		return "installing"
	}
	return "running " + s.String() + " for"
}

// StageError reports which stage of an installation failed.
type StageError struct {
	Stage   Stage
	Package module.Version
	Err     error
}

func (e *StageError) Error() string {
	return e.Summary() + ": " + e.Err.Error()
}

// Summary names the failed stage and package, e.g. "Error building normaliz".
func (e *StageError) Summary() string {
	return "Error " + e.Stage.gerund() + " " + e.Package.Name
}

func (e *StageError) Unwrap() error { return e.Err }

// Installer runs the configure, build and install stages of one package.
type Installer struct {
	Package *Package
	Dir     string            // package directory; the source lives below it
	Env     map[string]string // environment of the build; nil means the process environment
	Jobs    int               // parallel make jobs, 0 to leave $MAKE alone

	Stdout io.Writer
	Stderr io.Writer

	// BuildSystem overrides the Autotools runner, mainly for tests.
	BuildSystem buildsys.BuildSystem
}

// Run installs the package. It fails before doing anything if SAGE_LOCAL is
// empty, and stops at the first failing stage; nothing is retried or
// cleaned up.
func (i *Installer) Run(ctx context.Context) error {
	environ := i.Env
	if environ == nil {
		environ = env.Environ()
	}
	prefix, err := env.PrefixOf(environ)
	if err != nil {
		return err
	}

	pkg := i.Package
	if pkg == nil {
		pkg = Normaliz()
	}
	id := pkg.ID()
	src := filepath.Join(i.Dir, pkg.sourceDir())

	bs := i.BuildSystem
	if bs == nil {
		at := autotools.New(environ)
		if i.Stdout != nil {
			at.Stdout = i.Stdout
		}
		if i.Stderr != nil {
			at.Stderr = i.Stderr
		}
		bs = at
	}
	bs.Source(src)
	bs.InstallDir(prefix)
	if mk, ok := makeWithJobs(environ[env.Make], i.Jobs); ok {
		bs.Env(env.Make, mk)
	}

	log.Infof("spkg: configuring %s in %s (prefix %s)", id, src, prefix)
	if err := bs.Configure(ctx, pkg.ConfigureArgs(environ)...); err != nil {
		return &StageError{Stage: StageConfigure, Package: id, Err: err}
	}

	log.Infof("spkg: building %s", id)
	if err := bs.Build(ctx); err != nil {
		return &StageError{Stage: StageBuild, Package: id, Err: err}
	}

	log.Infof("spkg: installing %s into %s", id, bs.OutputDir())
	if err := bs.Install(ctx); err != nil {
		return &StageError{Stage: StageInstall, Package: id, Err: err}
	}
	log.Infof("spkg: installed %s", id)
	return nil
}

// makeWithJobs appends -jN to makeCmd (default "make"). It reports false
// when jobs is 0 or makeCmd already sets a job count.
func makeWithJobs(makeCmd string, jobs int) (string, bool) {
	if jobs <= 0 {
		return "", false
	}
	fields := strings.Fields(makeCmd)
	for _, f := range fields {
		if strings.HasPrefix(f, "-j") || f == "--jobs" || strings.HasPrefix(f, "--jobs=") {
			log.Debugf("spkg: MAKE=%q sets jobs, ignoring jobs=%d", makeCmd, jobs)
			return "", false
		}
	}
	if len(fields) == 0 {
		fields = []string{"make"}
	}
	return strings.Join(append(fields, "-j"+strconv.Itoa(jobs)), " "), true
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// Diagnose writes the diagnostic for err to w.
func Diagnose(w io.Writer, err error) {
	if errors.Is(err, ErrPrefixUnset) {
		fmt.Fprintln(w, env.Prefix+" undefined ... exiting")
		fmt.Fprintln(w, "Maybe run 'sage --sh'?")
		return
	}
	var se *StageError
	if errors.As(err, &se) {
		fmt.Fprintf(w, "%s.\n  %v\n", se.Summary(), se.Err)
		return
	}
	fmt.Fprintln(w, err)
}
