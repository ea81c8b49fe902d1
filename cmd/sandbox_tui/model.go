package sandbox_tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/mattsolo1/grove-sandbox/pkg/backend"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

type Phase int

const (
	// SetupPhase shows the initializer form.
	SetupPhase Phase = iota
	// ConversationPhase shows the roster, history and continuation controls.
	ConversationPhase
)

func (p Phase) String() string {
	return [...]string{"setup", "conversation"}[p]
}

const (
	defaultWidth      = 80
	defaultHeight     = 24
	minViewportHeight = 5
	inputHeight       = 3
	inputPlaceholder  = "Type your message..."
	maxContentWidth   = 120
)

// Model represents the state of the TUI
type Model struct {
	Client  backend.Client
	Phase   Phase
	KeyMap  KeyMap
	Help    help.Model
	Width   int
	Height  int
	Spinner spinner.Model

	// Setup
	Initializer  sandbox.InitializerState
	Initializing bool

	// Conversation
	Conversation sandbox.Conversation
	Input        textarea.Model
	Viewport     viewport.Model
	Submitting   bool
	ErrMessage   string

	ctx context.Context
}

// New creates a new Model talking to client.
func New(ctx context.Context, client backend.Client) Model {
	keyMap := NewKeyMap()
	helpModel := help.NewBuilder().
		WithKeys(keyMap).
		WithTitle("Character Sandbox - Help").
		Build()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.DefaultTheme.Info

	if ctx == nil {
		ctx = context.Background()
	}

	return Model{
		Client:      client,
		Phase:       SetupPhase,
		KeyMap:      keyMap,
		Help:        helpModel,
		Width:       defaultWidth,
		Height:      defaultHeight,
		Spinner:     s,
		Initializer: sandbox.NewInitializerState(),
		Input:       newInput(keyMap),
		Viewport:    viewport.New(defaultWidth, minViewportHeight),
		ctx:         ctx,
	}
}

func newInput(keyMap KeyMap) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.SetWidth(defaultWidth)
	// Enter submits; only the explicit newline keys break lines.
	ta.KeyMap.InsertNewline = keyMap.Newline
	return ta
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return nil
}

// Busy reports whether a request is in flight.
func (m Model) Busy() bool {
	return m.Initializing || m.Submitting
}

// HasInput reports whether the message box is shown. Only conversations with
// a human participant get one.
func (m Model) HasInput() bool {
	return m.Phase == ConversationPhase && m.Conversation.HasHuman()
}

// CanSubmit reports whether the continue control is enabled.
func (m Model) CanSubmit() bool {
	return sandbox.CanSubmit(m.Conversation, m.inputValue(), m.Submitting)
}

func (m Model) inputValue() string {
	if !m.HasInput() {
		return ""
	}
	return m.Input.Value()
}

func (m Model) contentWidth() int {
	w := m.Width - 2
	if w > maxContentWidth {
		w = maxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// startConversation swaps the setup form for a fresh conversation.
func (m *Model) startConversation(participants []sandbox.Participant) tea.Cmd {
	m.Phase = ConversationPhase
	m.Conversation = sandbox.NewConversation(participants)
	m.ErrMessage = ""
	m.Input.Reset()
	m.resize()
	m.refreshViewport()
	if m.HasInput() {
		return m.Input.Focus()
	}
	m.Input.Blur()
	return nil
}

// resetToSetup discards the conversation and shows the form again.
func (m *Model) resetToSetup() {
	m.Phase = SetupPhase
	m.Conversation = sandbox.Conversation{}
	m.ErrMessage = ""
	m.Input.Reset()
	m.Input.Blur()
	m.Viewport.SetContent("")
}

// resize lays out the input and the history viewport for the window size.
func (m *Model) resize() {
	width := m.contentWidth()
	m.Input.SetWidth(width)
	m.Viewport.Width = width

	height := m.Height - lineCount(m.headerView()) - lineCount(m.rosterView()) - lineCount(m.controlsView()) - lineCount(m.footerView()) - 2
	if height < minViewportHeight {
		height = minViewportHeight
	}
	m.Viewport.Height = height
}

// refreshViewport re-renders the history and follows the tail.
func (m *Model) refreshViewport() {
	m.Viewport.SetContent(renderTurns(m.Conversation, m.Viewport.Width))
	m.Viewport.GotoBottom()
}
