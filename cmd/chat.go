package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-sandbox/cmd/sandbox_tui"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/spf13/cobra"
)

var chatTranscript string

// RunChat launches the interactive sandbox.
func RunChat(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("sandbox chat requires an interactive terminal; use 'sandbox init' and 'sandbox continue' instead")
	}

	cfg, err := loadConfigFromFlags()
	if err != nil {
		return err
	}
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	// Logs would corrupt the alternate screen, so they go to a file while the TUI runs.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	oldGlobalOutput := logging.GetGlobalOutput()
	logging.SetGlobalOutput(logFile)
	defer logging.SetGlobalOutput(oldGlobalOutput)

	log.WithFields(map[string]interface{}{
		"api_base_url": client.BaseURL(),
		"environment":  cfg.Environment,
		"timeout":      cfg.Timeout,
	}).Info("Starting sandbox TUI")

	model := sandbox_tui.New(cmd.Context(), client)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("error running sandbox TUI: %w", err)
	}

	if chatTranscript == "" {
		return nil
	}
	final, ok := finalModel.(sandbox_tui.Model)
	if !ok || final.Phase != sandbox_tui.ConversationPhase {
		return nil
	}
	return writeTranscript(chatTranscript, final.Conversation)
}

// writeTranscript saves the full conversation, hidden turns included.
func writeTranscript(path string, conversation sandbox.Conversation) error {
	data, err := json.MarshalIndent(conversation.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	fmt.Printf("Transcript written to %s\n", path)
	return nil
}
