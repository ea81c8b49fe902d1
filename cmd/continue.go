package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattsolo1/grove-core/cli"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/spf13/cobra"
)

var (
	continueFile    string
	continueMessage string
)

func runContinue(cmd *cobra.Command, args []string) error {
	conversation, err := readConversation(cmd, continueFile)
	if err != nil {
		return err
	}
	if !sandbox.CanSubmit(conversation, continueMessage, false) {
		return errors.New(sandbox.InputRequiredMessage)
	}

	cfg, err := loadConfigFromFlags()
	if err != nil {
		return err
	}
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	result := conversation
	err = sandbox.Continue(cmd.Context(), client, conversation, continueMessage, func(updated sandbox.Conversation) {
		result = updated
	})
	if err != nil {
		var contErr *sandbox.ContinuationError
		if errors.As(err, &contErr) {
			fmt.Fprintln(cmd.ErrOrStderr(), color.RedString(contErr.UserMessage()))
		}
		return err
	}

	out := cmd.OutOrStdout()
	if cli.GetOptions(cmd).JSONOutput {
		return writeJSON(out, result.Normalize())
	}
	printTurns(out, result)
	return nil
}

// readConversation decodes a conversation from path, or from stdin for "-".
func readConversation(cmd *cobra.Command, path string) (sandbox.Conversation, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return sandbox.Conversation{}, fmt.Errorf("read conversation: %w", err)
	}

	var conversation sandbox.Conversation
	if err := json.Unmarshal(data, &conversation); err != nil {
		return sandbox.Conversation{}, fmt.Errorf("parse conversation: %w", err)
	}
	if len(conversation.Participants) == 0 {
		return sandbox.Conversation{}, errors.New("conversation has no participants; create one with 'sandbox init --json'")
	}
	return conversation.Normalize(), nil
}
