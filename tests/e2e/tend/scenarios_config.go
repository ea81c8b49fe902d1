// File: tests/e2e/tend/scenarios_config.go
package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-tend/pkg/fs"
	"github.com/mattsolo1/grove-tend/pkg/harness"
)

// ConfigLayeringScenario verifies grove.yml, .env, SANDBOX_* and flag precedence.
func ConfigLayeringScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "sandbox-config-layering",
		Description: "Checks how grove.yml, .env, environment variables and flags combine.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Setup project config", func(ctx *harness.Context) error {
				if err := setupEmptyGlobalConfig(ctx); err != nil {
					return err
				}
				configContent := `name: sandbox-test
sandbox:
  environment: production
  timeout: 30s
`
				return fs.WriteString(filepath.Join(ctx.RootDir, "grove.yml"), configContent)
			}),
			harness.NewStep("Production without a URL is rejected", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "config")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error == nil {
					return fmt.Errorf("config should fail in production without api_base_url")
				}
				return nil
			}),
			harness.NewStep(".env supplies the URL", func(ctx *harness.Context) error {
				if err := fs.WriteString(filepath.Join(ctx.RootDir, ".env"), "SANDBOX_API_BASE_URL=https://dotenv.example.com\n"); err != nil {
					return err
				}
				cmd, err := sandboxCommand(ctx, "config", "--json")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}

				var cfg map[string]interface{}
				if err := json.Unmarshal([]byte(result.Stdout), &cfg); err != nil {
					return fmt.Errorf("config --json output is not JSON: %w", err)
				}
				if cfg["resolved_api_base_url"] != "https://dotenv.example.com" {
					return fmt.Errorf("expected .env URL, got %v", cfg["resolved_api_base_url"])
				}
				if cfg["timeout"] != "30s" {
					return fmt.Errorf("expected timeout from grove.yml, got %v", cfg["timeout"])
				}
				return nil
			}),
			harness.NewStep("Environment beats .env and flags beat both", func(ctx *harness.Context) error {
				cmd, err := sandboxCommand(ctx, "config")
				if err != nil {
					return err
				}
				cmd.Env("SANDBOX_API_BASE_URL=https://env.example.com")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				if !strings.Contains(result.Stdout, "resolved_api_base_url: https://env.example.com") {
					return fmt.Errorf("expected environment URL, got:\n%s", result.Stdout)
				}

				cmd, err = sandboxCommand(ctx, "config", "--api-url", "https://flag.example.com", "--timeout", "5s")
				if err != nil {
					return err
				}
				cmd.Env("SANDBOX_API_BASE_URL=https://env.example.com")
				result = cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return result.Error
				}
				for _, want := range []string{"resolved_api_base_url: https://flag.example.com", "timeout: 5s"} {
					if !strings.Contains(result.Stdout, want) {
						return fmt.Errorf("expected %q in output:\n%s", want, result.Stdout)
					}
				}
				return nil
			}),
		},
	}
}

// ChatRequiresTerminalScenario checks that the TUI refuses to start without a TTY.
func ChatRequiresTerminalScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "sandbox-chat-requires-terminal",
		Description: "The interactive sandbox points to the headless commands when stdout is not a terminal.",
		Tags:        []string{"chat", "tui"},
		Steps: []harness.Step{
			harness.NewStep("Run chat without a terminal", func(ctx *harness.Context) error {
				if err := setupEmptyGlobalConfig(ctx); err != nil {
					return err
				}
				cmd, err := sandboxCommand(ctx, "chat")
				if err != nil {
					return err
				}
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error == nil {
					return fmt.Errorf("chat should fail without a terminal")
				}
				if !strings.Contains(result.Stderr, "requires an interactive terminal") {
					return fmt.Errorf("expected terminal error, got: %s", result.Stderr)
				}
				return nil
			}),
		},
	}
}
