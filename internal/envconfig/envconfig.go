// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package envconfig produces and interprets the environment file that is
// generated at configure time and sourced by every later build step.
//
// Sourcing has no equivalent outside a shell, so the file's effect is
// modelled as data: [Effects] lists what sourcing does, [Exports] applies it
// to an environment map without touching the process, and [Apply] pushes it
// into a live environment when the caller wants that.
package envconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goplus/spkg/internal/env"
)

// Template is the unsubstituted environment file.
//
//go:embed sage-env-config.in
var Template []byte

// TemplateName is the file name of Template; the generated file drops ".in".
const TemplateName = "sage-env-config.in"

// Python3Tag is the Python version tag that turns on the Python 3 marker.
const Python3Tag = "3"

// Config holds the values fixed at configure time.
type Config struct {
	Prefix        string `toml:"prefix"`
	CC            string `toml:"cc"`
	CXX           string `toml:"cxx"`
	FC            string `toml:"fc"`
	OBJC          string `toml:"objc"`
	OBJCXX        string `toml:"objcxx"`
	PythonVersion string `toml:"python_version"`
}

// Values returns the placeholder values for Template.
func (c Config) Values() map[string]string {
	return map[string]string{
		"configure_input":     "Generated from " + TemplateName + " by spkg config.",
		"prefix":              c.Prefix,
		"CC":                  c.CC,
		"CXX":                 c.CXX,
		"FC":                  c.FC,
		"OBJC":                c.OBJC,
		"OBJCXX":              c.OBJCXX,
		"SAGE_PYTHON_VERSION": c.PythonVersion,
	}
}

// Validate checks that c can be written into the template. Values land
// inside double quotes, so characters the shell would interpret there are
// rejected.
func (c Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("envconfig: prefix is empty")
	}
	if _, err := strconv.ParseUint(c.PythonVersion, 10, 32); err != nil {
		return fmt.Errorf("envconfig: python version %q is not a number", c.PythonVersion)
	}
	fields := []struct{ name, val string }{
		{"prefix", c.Prefix},
		{"cc", c.CC},
		{"cxx", c.CXX},
		{"fc", c.FC},
		{"objc", c.OBJC},
		{"objcxx", c.OBJCXX},
	}
	for _, f := range fields {
		if i := strings.IndexAny(f.val, "\"$`\\\n"); i >= 0 {
			return fmt.Errorf("envconfig: %s %q: unsupported character %q", f.name, f.val, f.val[i])
		}
	}
	return nil
}

// Effect is one change that sourcing the generated file makes to the
// environment.
type Effect struct {
	Key   string
	Value string
	Unset bool
}

// Effects lists, in file order, what sourcing the file generated from c does.
// The Python 3 marker is unset when the tag is not [Python3Tag] so that the
// result does not depend on the caller's prior environment.
func Effects(c Config) []Effect {
	effects := []Effect{
		{Key: env.Prefix, Value: c.Prefix},
		{Key: env.CC, Value: c.CC},
		{Key: env.CXX, Value: c.CXX},
		{Key: env.FC, Value: c.FC},
		{Key: env.OBJC, Value: c.OBJC},
		{Key: env.OBJCXX, Value: c.OBJCXX},
		{Key: env.PythonVersion, Value: c.PythonVersion},
	}
	if c.PythonVersion == Python3Tag {
		return append(effects, Effect{Key: env.Python3, Value: "yes"})
	}
	return append(effects, Effect{Key: env.Python3, Unset: true})
}

// Exports returns a copy of environ with the effects of c applied. environ
// itself is not modified.
func Exports(environ map[string]string, c Config) map[string]string {
	out := env.Merge(environ, nil)
	for _, e := range Effects(c) {
		if e.Unset {
			delete(out, e.Key)
		} else {
			out[e.Key] = e.Value
		}
	}
	return out
}

// Setter is an environment that effects can be applied to.
type Setter interface {
	Setenv(key, value string) error
	Unsetenv(key string) error
}

// Apply applies effects to s in order. It stops at and returns the first
// error.
func Apply(s Setter, effects []Effect) error {
	for _, e := range effects {
		var err error
		if e.Unset {
			err = s.Unsetenv(e.Key)
		} else {
			err = s.Setenv(e.Key, e.Value)
		}
		if err != nil {
			return fmt.Errorf("envconfig: apply %s: %w", e.Key, err)
		}
	}
	return nil
}

// MapSetter applies effects to a map.
type MapSetter map[string]string

func (m MapSetter) Setenv(key, value string) error {
	if key == "" {
		return errors.New("empty key")
	}
	m[key] = value
	return nil
}

func (m MapSetter) Unsetenv(key string) error {
	delete(m, key)
	return nil
}
