// File: tests/e2e/tend/helpers.go
package main

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/mattsolo1/grove-sandbox/pkg/fakebackend"
	"github.com/mattsolo1/grove-tend/pkg/command"
	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
)

// getSandboxBinary is a helper to find the `sandbox` binary path for tests.
func getSandboxBinary() (string, error) {
	sandboxBinary := os.Getenv("SANDBOX_BINARY")
	if sandboxBinary != "" {
		return sandboxBinary, nil
	}

	// Try to find the binary relative to the test execution directory
	candidates := []string{
		"./bin/sandbox",
		"../bin/sandbox",
		"../../bin/sandbox",
		"../../../bin/sandbox",
		"../../../../bin/sandbox",
	}

	for _, candidate := range candidates {
		if absPath, err := filepath.Abs(candidate); err == nil {
			if _, err := os.Stat(absPath); err == nil {
				return absPath, nil
			}
		}
	}

	return "", fmt.Errorf("sandbox binary not found. Build it with 'go build -o bin/sandbox .' or set SANDBOX_BINARY env var")
}

// sandboxCommand builds a `sandbox` invocation in the scenario root, pointed
// at the fake backend when one is running.
func sandboxCommand(ctx *harness.Context, args ...string) (*command.Command, error) {
	bin, err := getSandboxBinary()
	if err != nil {
		return nil, err
	}
	if url := ctx.GetString("backend_url"); url != "" {
		args = append(args, "--api-url", url)
	}
	return ctx.Command(bin, args...).Dir(ctx.RootDir), nil
}

// setupEmptyGlobalConfig writes a minimal global grove.yml so the user's own
// configuration does not leak into the scenario.
func setupEmptyGlobalConfig(ctx *harness.Context) error {
	globalConfigDir := filepath.Join(ctx.ConfigDir(), "grove")
	if err := fs.CreateDir(globalConfigDir); err != nil {
		return err
	}
	emptyGlobalConfig := "version: \"1.0\"\n"
	return fs.WriteString(filepath.Join(globalConfigDir, "grove.yml"), emptyGlobalConfig)
}

// fakeBackend owns an in-process backend for the lifetime of a scenario.
type fakeBackend struct {
	opts   []fakebackend.Option
	server *httptest.Server
}

func newFakeBackend(opts ...fakebackend.Option) *fakeBackend {
	return &fakeBackend{opts: opts}
}

// Start returns a step that launches the backend and records its URL.
func (f *fakeBackend) Start() harness.Step {
	return harness.NewStep("Start fake backend", func(ctx *harness.Context) error {
		if err := setupEmptyGlobalConfig(ctx); err != nil {
			return err
		}
		f.server = httptest.NewServer(fakebackend.New(f.opts...))
		ctx.Set("backend_url", f.server.URL)
		return nil
	})
}

// Stop returns a step that shuts the backend down.
func (f *fakeBackend) Stop() harness.Step {
	return harness.NewStep("Stop fake backend", func(ctx *harness.Context) error {
		if f.server != nil {
			f.server.Close()
		}
		ctx.Set("backend_url", "")
		return nil
	})
}
