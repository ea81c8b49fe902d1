package sandbox_tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Help.Height = msg.Height
		m.Help, _ = m.Help.Update(msg)
		m.resize()
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case CharactersInitializedMsg:
		m.Initializing = false
		if msg.Err != nil {
			// The form stays as it was; the failure is only logged.
			return m, nil
		}
		return m, m.startConversation(msg.Participants)

	case ConversationContinuedMsg:
		m.Submitting = false
		if msg.Err != nil {
			m.ErrMessage = sandbox.ContinueFailedMessage
			var contErr *sandbox.ContinuationError
			if errors.As(msg.Err, &contErr) {
				m.ErrMessage = contErr.UserMessage()
			}
			return m, nil
		}
		if msg.Conversation != nil {
			m.Conversation = msg.Conversation.Normalize()
		}
		m.ErrMessage = ""
		m.Input.Reset()
		m.resize()
		m.refreshViewport()
		return m, nil

	case tea.MouseMsg:
		if m.Phase == ConversationPhase {
			var cmd tea.Cmd
			m.Viewport, cmd = m.Viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.KeyMap.ForceQuit) {
			return m, tea.Quit
		}

		if m.Help.ShowAll {
			var cmd tea.Cmd
			m.Help, cmd = m.Help.Update(msg)
			return m, cmd
		}

		if m.Phase == SetupPhase {
			return m.updateSetup(msg)
		}
		return m.updateConversation(msg)
	}

	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.KeyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.KeyMap.Help):
		m.Help.Toggle()
		return m, nil
	}

	// The form is frozen while the roster request runs.
	if m.Initializing {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.KeyMap.Increment):
		m.Initializer = m.Initializer.Increment()
	case key.Matches(msg, m.KeyMap.Decrement):
		m.Initializer = m.Initializer.Decrement()
	case key.Matches(msg, m.KeyMap.ToggleHuman):
		m.Initializer = m.Initializer.ToggleHuman()
	case key.Matches(msg, m.KeyMap.Start):
		m.Initializing = true
		return m, tea.Batch(
			m.Spinner.Tick,
			initializeCharactersCmd(m.ctx, m.Client, m.Initializer),
		)
	}
	return m, nil
}

func (m Model) updateConversation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.KeyMap.Submit):
		if !m.CanSubmit() {
			return m, nil
		}
		conversation := m.Conversation
		input := m.inputValue()
		m.Submitting = true
		m.ErrMessage = ""
		return m, tea.Batch(
			m.Spinner.Tick,
			continueConversationCmd(m.ctx, m.Client, conversation, input),
		)

	case key.Matches(msg, m.KeyMap.NewConversation):
		if m.Submitting {
			return m, nil
		}
		m.resetToSetup()
		return m, nil

	case key.Matches(msg, m.KeyMap.PageUp):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(tea.KeyMsg{Type: tea.KeyPgUp})
		return m, cmd

	case key.Matches(msg, m.KeyMap.PageDown):
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(tea.KeyMsg{Type: tea.KeyPgDown})
		return m, cmd
	}

	// Without a message box the letter keys are free for quit and help.
	if !m.HasInput() {
		switch {
		case key.Matches(msg, m.KeyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.KeyMap.Help):
			m.Help.Toggle()
			return m, nil
		case key.Matches(msg, m.KeyMap.Up):
			var cmd tea.Cmd
			m.Viewport, cmd = m.Viewport.Update(tea.KeyMsg{Type: tea.KeyUp})
			return m, cmd
		case key.Matches(msg, m.KeyMap.Down):
			var cmd tea.Cmd
			m.Viewport, cmd = m.Viewport.Update(tea.KeyMsg{Type: tea.KeyDown})
			return m, cmd
		}
		return m, nil
	}

	// The message box is read-only while a turn is being generated.
	if m.Submitting {
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.resize()
	return m, cmd
}
