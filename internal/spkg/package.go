package spkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/goplus/spkg/pkgs/mod/module"
	"github.com/goplus/spkg/pkgs/mod/versions"
)

// DescriptorName is the optional per-package descriptor file.
const DescriptorName = "spkg.toml"

// DefaultSource is the source subdirectory used when a descriptor names none.
const DefaultSource = "src"

// Package describes how to configure one Autotools package.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Source is the directory, relative to the package directory, that
	// holds the configure script.
	Source string `toml:"source"`
	// Configure holds the flags passed after --prefix. $VAR and ${VAR} are
	// expanded against the installer environment.
	Configure []string `toml:"configure"`
}

// Normaliz returns the built-in descriptor: SCIP and nmzIntegrate support
// disabled, GMP taken from the installation prefix.
func Normaliz() *Package {
	return &Package{
		Name:   "normaliz",
		Source: DefaultSource,
		Configure: []string{
			"--disable-scip",
			"--disable-nmzintegrate",
			"--with-gmp=$SAGE_LOCAL",
		},
	}
}

// ID returns the package's name and version.
func (p *Package) ID() module.Version {
	return module.Version{Name: p.Name, Version: p.Version}
}

func (p *Package) sourceDir() string {
	if p.Source == "" {
		return DefaultSource
	}
	return p.Source
}

// ConfigureArgs returns the configure flags with variables expanded
// against environ. Unknown variables expand to "".
func (p *Package) ConfigureArgs(environ map[string]string) []string {
	args := make([]string, len(p.Configure))
	for i, f := range p.Configure {
		args[i] = os.Expand(f, func(k string) string { return environ[k] })
	}
	return args
}

// LoadPackage reads the descriptor in dir, falling back to [Normaliz] when
// there is none. An empty version is taken from package-version.txt when
// that file exists. A descriptor without a name takes name (and, lacking
// both, version) from a "name-version" directory name.
func LoadPackage(dir string) (*Package, error) {
	p := Normaliz()
	path := filepath.Join(dir, DescriptorName)
	if _, err := os.Stat(path); err == nil {
		p = &Package{}
		md, err := toml.DecodeFile(path, p)
		if err != nil {
			return nil, fmt.Errorf("spkg: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("spkg: %s: unknown key %s", path, undecoded[0])
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var fromDir module.Version
	if p.Name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		if fromDir, err = module.Parse(filepath.Base(abs)); err != nil {
			return nil, fmt.Errorf("spkg: %s: name is empty: %w", path, err)
		}
		p.Name = fromDir.Name
	}

	if p.Version == "" {
		v, err := versions.ReadFile(filepath.Join(dir, versions.FileName), nil)
		switch {
		case err == nil:
			p.Version = v.String()
		case errors.Is(err, fs.ErrNotExist):
			p.Version = fromDir.Version
		default:
			return nil, err
		}
	}
	if p.Version != "" {
		if _, err := versions.Parse(p.Version); err != nil {
			return nil, err
		}
	}
	if p.Source != "" && !filepath.IsLocal(p.Source) {
		return nil, fmt.Errorf("spkg: %s: source %q must stay inside the package directory", path, p.Source)
	}
	return p, nil
}
