package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRoster lists participants as "name (TYPE): backstory".
func printRoster(w io.Writer, conversation sandbox.Conversation) {
	fmt.Fprintln(w, "Participants:")
	for _, p := range conversation.Participants {
		fmt.Fprintf(w, "  • %s (%s): %s\n", color.CyanString(p.Name), p.Type, p.Backstory)
	}
}

// printTurns prints the visible history. Self-reflection turns are skipped.
func printTurns(w io.Writer, conversation sandbox.Conversation) {
	turns := conversation.VisibleTurns()
	if len(turns) == 0 {
		fmt.Fprintln(w, "No dialog turns yet.")
		return
	}
	for _, turn := range turns {
		name := color.GreenString(turn.Participant)
		if turn.IsStranger() {
			name = color.YellowString(turn.Participant)
		}
		fmt.Fprintf(w, "%s: %s\n", name, turn.Content)
	}
}
