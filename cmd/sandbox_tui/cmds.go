package sandbox_tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

// Message types
type CharactersInitializedMsg struct {
	Participants []sandbox.Participant
	Err          error
}

type ConversationContinuedMsg struct {
	Conversation *sandbox.Conversation
	Err          error
}

// initializeCharactersCmd requests a roster for the configured cast.
func initializeCharactersCmd(ctx context.Context, client sandbox.CharacterInitializer, state sandbox.InitializerState) tea.Cmd {
	return func() tea.Msg {
		var roster []sandbox.Participant
		err := sandbox.Initialize(ctx, client, state, func(participants []sandbox.Participant) {
			roster = participants
		})
		return CharactersInitializedMsg{Participants: roster, Err: err}
	}
}

// continueConversationCmd sends one continuation. The model applies the
// result when the message arrives, so conversation state is only ever
// replaced on the event loop.
func continueConversationCmd(ctx context.Context, client sandbox.ConversationContinuer, conversation sandbox.Conversation, input string) tea.Cmd {
	return func() tea.Msg {
		var updated *sandbox.Conversation
		err := sandbox.Continue(ctx, client, conversation, input, func(c sandbox.Conversation) {
			updated = &c
		})
		return ConversationContinuedMsg{Conversation: updated, Err: err}
	}
}
