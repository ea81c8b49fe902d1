package sandbox_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

const (
	title       = "Character Sandbox"
	description = "Choose a character count and start a conversation to bootstrap a cast of fantasy characters with backstories."
	guidance    = "Interact amongst the characters conversation or let them talk amongst themselves. " +
		"Optionally, reference a character by name to direct a comment towards them."
)

var userTurnStyle = lipgloss.NewStyle().Foreground(theme.DefaultColors.Orange).Bold(true)

var aiTurnStyle = theme.DefaultTheme.Info.Copy().Bold(true)

var buttonStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.DefaultColors.Border).
	Padding(0, 2)

var disabledButtonStyle = buttonStyle.Copy().Foreground(theme.DefaultColors.Border)

// View renders the TUI
func (m Model) View() string {
	if m.Help.ShowAll {
		return m.Help.View()
	}

	sections := []string{m.headerView()}
	if m.Phase == SetupPhase {
		sections = append(sections, m.setupView())
	} else {
		sections = append(sections, m.rosterView())
		if len(m.Conversation.DialogTurns) > 0 {
			sections = append(sections,
				theme.DefaultTheme.Header.Render("Conversation:"),
				m.Viewport.View(),
			)
		}
		sections = append(sections, m.controlsView())
	}
	sections = append(sections, m.footerView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	width := m.contentWidth()
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.DefaultTheme.Header.Render(title),
		theme.DefaultTheme.Muted.Copy().Width(width).Render(description),
		"",
	)
}

func (m Model) setupView() string {
	state := m.Initializer
	var b strings.Builder

	b.WriteString(theme.DefaultTheme.Bold.Render("Initialize Conversation"))
	b.WriteString("\n\n")

	dec := theme.DefaultTheme.Muted.Render("[-]")
	if state.CanDecrement() && !m.Initializing {
		dec = "[-]"
	}
	inc := theme.DefaultTheme.Muted.Render("[+]")
	if state.CanIncrement() && !m.Initializing {
		inc = "[+]"
	}
	fmt.Fprintf(&b, "Number of AI Characters: %s %s %s  %s\n",
		dec,
		theme.DefaultTheme.Highlight.Render(fmt.Sprintf("%d", state.Count)),
		inc,
		theme.DefaultTheme.Muted.Render(fmt.Sprintf("(1-%d)", state.MaxCount())),
	)

	check := "[ ]"
	if state.HumanEnabled {
		check = "[x]"
	}
	participation := check + " Enable User Participation"
	if state.HumanLocked() || m.Initializing {
		participation = theme.DefaultTheme.Muted.Render(participation)
	}
	b.WriteString(participation)
	if state.HumanLocked() {
		b.WriteString(theme.DefaultTheme.Muted.Render("  (required with a single character)"))
	}
	b.WriteString("\n\n")

	if m.Initializing {
		b.WriteString(m.Spinner.View() + " Initializing...")
	} else {
		b.WriteString(buttonStyle.Render("Start Conversation"))
	}
	return b.String()
}

func (m Model) rosterView() string {
	if m.Phase != ConversationPhase {
		return ""
	}
	width := m.contentWidth()
	lines := []string{theme.DefaultTheme.Bold.Render("Participants:")}
	for _, p := range m.Conversation.Participants {
		line := fmt.Sprintf("• %s (%s): %s", theme.DefaultTheme.Bold.Render(p.Name), p.Type, p.Backstory)
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(line))
	}
	lines = append(lines, "", theme.DefaultTheme.Muted.Copy().Width(width).Render(guidance), "")
	return strings.Join(lines, "\n")
}

func (m Model) controlsView() string {
	if m.Phase != ConversationPhase {
		return ""
	}
	var lines []string

	if m.HasInput() {
		lines = append(lines, m.Input.View())
	}
	if m.ErrMessage != "" {
		lines = append(lines, theme.DefaultTheme.Error.Render(m.ErrMessage))
	}
	if sandbox.InputRequired(m.Conversation, m.inputValue()) {
		lines = append(lines, theme.DefaultTheme.Warning.Render(sandbox.InputRequiredMessage))
	}

	switch {
	case m.Submitting:
		lines = append(lines, m.Spinner.View()+" Processing...")
	case m.CanSubmit():
		lines = append(lines, buttonStyle.Render("Continue Conversation"))
	default:
		lines = append(lines, disabledButtonStyle.Render("Continue Conversation"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	return m.Help.View()
}

// renderTurns formats the visible history. Self-reflection turns are hidden
// here but stay in the conversation that is sent back.
func renderTurns(conversation sandbox.Conversation, width int) string {
	turns := conversation.VisibleTurns()
	if len(turns) == 0 {
		return ""
	}
	body := lipgloss.NewStyle()
	if width > 0 {
		body = body.Width(width)
	}

	rendered := make([]string, 0, len(turns))
	for _, turn := range turns {
		style := aiTurnStyle
		if turn.IsStranger() {
			style = userTurnStyle
		}
		rendered = append(rendered, body.Render(style.Render(turn.Participant+":")+" "+turn.Content))
	}
	return strings.Join(rendered, "\n\n")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}
