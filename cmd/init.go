package cmd

import (
	"github.com/mattsolo1/grove-core/cli"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/spf13/cobra"
)

var (
	initCount int
	initHuman bool
)

func runInit(cmd *cobra.Command, args []string) error {
	state := sandbox.InitializerState{Count: initCount, HumanEnabled: initHuman}
	if err := state.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfigFromFlags()
	if err != nil {
		return err
	}
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	var conversation sandbox.Conversation
	err = sandbox.Initialize(cmd.Context(), client, state, func(participants []sandbox.Participant) {
		conversation = sandbox.NewConversation(participants)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cli.GetOptions(cmd).JSONOutput {
		return writeJSON(out, conversation)
	}
	printRoster(out, conversation)
	return nil
}
