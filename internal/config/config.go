// Package config loads the spkg-settings.toml settings file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/goplus/spkg/internal/env"
	"github.com/goplus/spkg/internal/envconfig"
)

// FileName is the default settings file name. It differs from the package
// descriptor name so that both can sit in one directory.
const FileName = "spkg-settings.toml"

// DefaultPythonVersion is used when neither the file nor the environment
// names a Python version.
const DefaultPythonVersion = envconfig.Python3Tag

// File is the content of a settings file.
type File struct {
	Toolchain envconfig.Config `toml:"toolchain"`
	Build     Build            `toml:"build"`
}

// Build holds settings for the make steps.
type Build struct {
	Jobs int `toml:"jobs"`
}

// Load decodes path. Unknown keys are an error, so typos do not silently
// fall back to defaults.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if f.Build.Jobs < 0 {
		return nil, fmt.Errorf("config: %s: build.jobs must not be negative", path)
	}
	return &f, nil
}

// LoadOptional is Load, except that a missing file yields an empty File.
func LoadOptional(path string) (*File, error) {
	f, err := Load(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return &File{}, nil
		}
		return nil, err
	}
	return f, nil
}

// FillFromEnv sets every empty toolchain value from environ and the Python
// version from DefaultPythonVersion as a last resort.
func (f *File) FillFromEnv(environ map[string]string) {
	tc := &f.Toolchain
	fill := []struct {
		dst *string
		key string
	}{
		{&tc.Prefix, env.Prefix},
		{&tc.CC, env.CC},
		{&tc.CXX, env.CXX},
		{&tc.FC, env.FC},
		{&tc.OBJC, env.OBJC},
		{&tc.OBJCXX, env.OBJCXX},
		{&tc.PythonVersion, env.PythonVersion},
	}
	for _, e := range fill {
		if *e.dst == "" {
			*e.dst = environ[e.key]
		}
	}
	if tc.PythonVersion == "" {
		tc.PythonVersion = DefaultPythonVersion
	}
}
