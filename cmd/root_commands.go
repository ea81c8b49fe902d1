package cmd

import (
	"github.com/spf13/cobra"
)

// This file contains the constructors for the top-level commands and the
// flags shared between them.

var (
	apiURLFlag  string
	timeoutFlag string
)

// AddGlobalFlags registers the backend flags on the root command.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Backend base URL (overrides api_base_url and SANDBOX_API_BASE_URL)")
	root.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "Per-request timeout, e.g. 30s (overrides timeout and SANDBOX_TIMEOUT)")
}

// loadConfigFromFlags resolves the configuration with the global flags applied.
func loadConfigFromFlags() (*SandboxConfig, error) {
	return loadSandboxConfig(configOverrides{
		APIBaseURL: apiURLFlag,
		Timeout:    timeoutFlag,
	})
}

// NewChatCmd creates the `chat` command, which is also the root default.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation sandbox",
		Long: `Launch the interactive sandbox. Pick how many AI characters to create and
whether you take part, then continue the conversation one turn at a time.

Examples:
  sandbox chat
  sandbox chat --api-url http://localhost:8000
  sandbox chat --transcript conversation.json`,
		Args: cobra.NoArgs,
		RunE: RunChat,
	}
	cmd.Flags().StringVar(&chatTranscript, "transcript", "", "Write the final conversation as JSON to this file on exit")
	return cmd
}

// NewInitCmd creates the `init` command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a cast of characters",
		Long: `Ask the backend for a roster of characters and print it.

With --json the output is a conversation with no turns, ready to be piped
into 'sandbox continue'.

Examples:
  sandbox init --count 3
  sandbox init --count 1 --json > conversation.json
  sandbox init --count 5 --human=false`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().IntVar(&initCount, "count", 2, "Number of AI characters")
	cmd.Flags().BoolVar(&initHuman, "human", true, "Include yourself as a participant")
	return cmd
}

// NewContinueCmd creates the `continue` command.
func NewContinueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Continue a conversation by one turn",
		Long: `Read a conversation as JSON, request the next turn and print the result.

The conversation is read from --file, or from stdin when --file is '-' or
omitted. A --message is added as your turn before the request is sent.

Examples:
  sandbox continue -f conversation.json -m "Tell me about Valoria."
  sandbox init --count 3 --human=false --json | sandbox continue --json`,
		Args: cobra.NoArgs,
		RunE: runContinue,
	}
	cmd.Flags().StringVarP(&continueFile, "file", "f", "-", "Conversation JSON file ('-' for stdin)")
	cmd.Flags().StringVarP(&continueMessage, "message", "m", "", "Your message for this turn")
	return cmd
}

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective sandbox configuration",
		Long: `Print the sandbox configuration after grove.yml, .env, SANDBOX_* variables
and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
	return cmd
}
