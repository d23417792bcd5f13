package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/goplus/spkg/internal/config"
	"github.com/goplus/spkg/internal/envconfig"
	"github.com/goplus/spkg/internal/spkg"
)

// execute runs the command line with fresh flag values and returns the exit
// status together with what was written to stdout and stderr.
func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	return executeSettings(t, filepath.Join(t.TempDir(), "absent.toml"), args...)
}

// executeSettings is execute with settingsDefault standing in for the
// --config default.
func executeSettings(t *testing.T, settingsDefault string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	verbose = false
	configFile = settingsDefault
	installEnvConfig = ""
	configOutput = ""
	configValues = envconfig.Config{}
	envFormat = ""

	var out, errb bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	code = Execute()
	return code, out.String(), errb.String()
}

func clearToolchainEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SAGE_LOCAL", "CC", "CXX", "FC", "OBJC", "OBJCXX", "SAGE_PYTHON_VERSION", "SAGE_PYTHON3", "MAKE"} {
		t.Setenv(k, "")
	}
}

func TestConfigToStdout(t *testing.T) {
	clearToolchainEnv(t)
	t.Setenv("CC", "cc-from-env")

	code, out, errOut := execute(t, "config", "--prefix", "/opt/sage/local", "--cxx", "g++-13", "--python-version", "3")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, line := range []string{
		`export SAGE_LOCAL="/opt/sage/local"`,
		`export CC="cc-from-env"`,
		`export CXX="g++-13"`,
		`export SAGE_PYTHON_VERSION=3`,
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestConfigUsesSettingsFile(t *testing.T) {
	clearToolchainEnv(t)
	settings := filepath.Join(t.TempDir(), "spkg-settings.toml")
	if err := os.WriteFile(settings, []byte("[toolchain]\nprefix = \"/from/file\"\nfc = \"gfortran-12\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := executeWithConfig(t, settings, "config", "--fc", "flang")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `export SAGE_LOCAL="/from/file"`) {
		t.Errorf("prefix not taken from settings:\n%s", out)
	}
	if !strings.Contains(out, `export FC="flang"`) {
		t.Errorf("flag did not override settings:\n%s", out)
	}
}

// executeWithConfig is execute with --config pointing at path.
func executeWithConfig(t *testing.T, path string, args ...string) (int, string, string) {
	t.Helper()
	return execute(t, append(args, "--config", path)...)
}

func TestConfigWithoutPrefixFails(t *testing.T) {
	clearToolchainEnv(t)
	code, _, errOut := execute(t, "config")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut, "prefix is empty") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestConfigThenEnv(t *testing.T) {
	clearToolchainEnv(t)
	file := filepath.Join(t.TempDir(), "sage-env-config")
	code, _, errOut := execute(t, "config", "-o", file, "--prefix", "/p", "--cc", "gcc", "--python-version", "2")
	if code != 0 {
		t.Fatalf("config exit %d: %s", code, errOut)
	}

	code, out, errOut := execute(t, "env", file)
	if code != 0 {
		t.Fatalf("env exit %d: %s", code, errOut)
	}
	for _, line := range []string{"export SAGE_LOCAL='/p'\n", "export CC='gcc'\n", "export SAGE_PYTHON_VERSION='2'\n", "unset SAGE_PYTHON3\n"} {
		if !strings.Contains(out, line) {
			t.Errorf("env output missing %q:\n%s", line, out)
		}
	}

	code, out, _ = execute(t, "env", file, "--format", `{{range .}}{{if not .Unset}}{{.Key}} {{end}}{{end}}`)
	if code != 0 || out != "SAGE_LOCAL CC CXX FC OBJC OBJCXX SAGE_PYTHON_VERSION " {
		t.Errorf("env --format: exit %d, output %q", code, out)
	}
}

func TestEnvMissingFile(t *testing.T) {
	code, _, errOut := execute(t, "env", filepath.Join(t.TempDir(), "nope"))
	if code != 1 || errOut == "" {
		t.Errorf("exit %d, stderr %q; want 1 and a message", code, errOut)
	}
}

func TestInstallPrefixUnset(t *testing.T) {
	clearToolchainEnv(t)
	code, out, errOut := execute(t, "install", t.TempDir())
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if want := "SAGE_LOCAL undefined ... exiting\nMaybe run 'sage --sh'?\n"; errOut != want {
		t.Errorf("stderr = %q, want %q", errOut, want)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestInstallWithEnvConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need /bin/sh")
	}
	clearToolchainEnv(t)
	prefix := filepath.Join(t.TempDir(), "local")

	pkgDir := t.TempDir()
	writeScript(t, filepath.Join(pkgDir, "src", "configure"), `echo "$@" > configure.args
echo "CC=$CC" >> configure.args
`)
	fakeMake := filepath.Join(t.TempDir(), "make")
	writeScript(t, fakeMake, `echo make "$@" >> make.log
`)
	t.Setenv("MAKE", fakeMake)

	file := filepath.Join(t.TempDir(), "sage-env-config")
	if code, _, errOut := execute(t, "config", "-o", file, "--prefix", prefix, "--cc", "my-gcc"); code != 0 {
		t.Fatalf("config exit %d: %s", code, errOut)
	}

	code, _, errOut := execute(t, "install", pkgDir, "--env-config", file)
	if code != 0 {
		t.Fatalf("install exit %d: %s", code, errOut)
	}

	data, err := os.ReadFile(filepath.Join(pkgDir, "src", "configure.args"))
	if err != nil {
		t.Fatal(err)
	}
	want := "--prefix=" + prefix + " --disable-scip --disable-nmzintegrate --with-gmp=" + prefix + "\nCC=my-gcc\n"
	if string(data) != want {
		t.Errorf("configure.args = %q, want %q", data, want)
	}
	data, err = os.ReadFile(filepath.Join(pkgDir, "src", "make.log"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "make\nmake install\n"; string(data) != want {
		t.Errorf("make.log = %q, want %q", data, want)
	}
}

func TestInstallConfigureFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need /bin/sh")
	}
	clearToolchainEnv(t)
	t.Setenv("SAGE_LOCAL", t.TempDir())

	pkgDir := t.TempDir()
	writeScript(t, filepath.Join(pkgDir, "src", "configure"), "exit 1\n")
	fakeMake := filepath.Join(t.TempDir(), "make")
	writeScript(t, fakeMake, "touch make.ran\n")
	t.Setenv("MAKE", fakeMake)

	code, _, errOut := execute(t, "install", pkgDir)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.HasPrefix(errOut, "Error configuring normaliz.\n") {
		t.Errorf("stderr = %q", errOut)
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "src", "make.ran")); err == nil {
		t.Error("make ran after configure failed")
	}
}

// A package directory holding both the descriptor and the settings file
// installs with the default --config.
func TestInstallDefaultSettingsBesideDescriptor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need /bin/sh")
	}
	clearToolchainEnv(t)
	prefix := t.TempDir()
	t.Setenv("SAGE_LOCAL", prefix)

	pkgDir := t.TempDir()
	descriptor := `name = "normaliz"
version = "3.5.4.p0"
configure = ["--disable-scip", "--with-gmp=$SAGE_LOCAL"]
`
	if err := os.WriteFile(filepath.Join(pkgDir, spkg.DescriptorName), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, config.FileName), []byte("[build]\njobs = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeScript(t, filepath.Join(pkgDir, "src", "configure"), `echo "$@" > configure.args
`)
	fakeMake := filepath.Join(t.TempDir(), "make")
	writeScript(t, fakeMake, `echo make "$@" >> make.log
`)
	t.Setenv("MAKE", fakeMake)
	chdir(t, pkgDir)

	code, _, errOut := executeSettings(t, config.FileName, "install")
	if code != 0 {
		t.Fatalf("install exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, "src", "configure.args"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "--prefix=" + prefix + " --disable-scip --with-gmp=" + prefix + "\n"; string(data) != want {
		t.Errorf("configure.args = %q, want %q", data, want)
	}
	data, err = os.ReadFile(filepath.Join(pkgDir, "src", "make.log"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "make -j4\nmake install\n"; string(data) != want {
		t.Errorf("make.log = %q, want %q", data, want)
	}
}

func TestInstallDefaultSettingsAbsent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need /bin/sh")
	}
	clearToolchainEnv(t)
	t.Setenv("SAGE_LOCAL", t.TempDir())

	pkgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(pkgDir, spkg.DescriptorName), []byte("name = \"normaliz\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeScript(t, filepath.Join(pkgDir, "src", "configure"), "")
	fakeMake := filepath.Join(t.TempDir(), "make")
	writeScript(t, fakeMake, `echo make "$@" >> make.log
`)
	t.Setenv("MAKE", fakeMake)
	chdir(t, pkgDir)

	code, _, errOut := executeSettings(t, config.FileName, "install")
	if code != 0 {
		t.Fatalf("install exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(filepath.Join(pkgDir, "src", "make.log"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "make\nmake install\n"; string(data) != want {
		t.Errorf("make.log = %q, want %q", data, want)
	}
}

// chdir changes the working directory to dir for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
