package spkg

import (
	"context"
	"errors"
	"strings"
)

// mockBuildSystem records the lifecycle calls it receives and fails the
// stage named in failAt.
type mockBuildSystem struct {
	failAt     Stage
	source     string
	installDir string
	env        map[string]string
	calls      []string
}

func (m *mockBuildSystem) Source(dir string)     { m.source = dir }
func (m *mockBuildSystem) InstallDir(dir string) { m.installDir = dir }

func (m *mockBuildSystem) Env(key, val string) {
	if m.env == nil {
		m.env = map[string]string{}
	}
	m.env[key] = val
}

func (m *mockBuildSystem) step(s Stage, args []string) error {
	m.calls = append(m.calls, strings.TrimSpace(s.String()+" "+strings.Join(args, " ")))
	if m.failAt == s {
		return errors.New(s.String() + " exploded")
	}
	return nil
}

func (m *mockBuildSystem) Configure(_ context.Context, args ...string) error {
	return m.step(StageConfigure, args)
}

func (m *mockBuildSystem) Build(_ context.Context, args ...string) error {
	return m.step(StageBuild, args)
}

func (m *mockBuildSystem) Install(_ context.Context, args ...string) error {
	return m.step(StageInstall, args)
}

func (m *mockBuildSystem) OutputDir() string { return m.installDir }
