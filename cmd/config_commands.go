package cmd

import (
	"fmt"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// effectiveConfig is SandboxConfig plus the values derived from it.
type effectiveConfig struct {
	SandboxConfig   `yaml:",inline"`
	ResolvedBaseURL string `yaml:"resolved_api_base_url" json:"resolved_api_base_url"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		return err
	}
	baseURL, err := cfg.ResolveBaseURL()
	if err != nil {
		return err
	}
	effective := effectiveConfig{SandboxConfig: *cfg, ResolvedBaseURL: baseURL}

	out := cmd.OutOrStdout()
	if cli.GetOptions(cmd).JSONOutput {
		return writeJSON(out, effective)
	}

	data, err := yaml.Marshal(map[string]effectiveConfig{"sandbox": effective})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
