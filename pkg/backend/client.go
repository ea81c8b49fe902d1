package backend

import "github.com/mattsolo1/grove-sandbox/pkg/sandbox"

// Client talks to the character sandbox backend.
// This abstraction lets the TUI and commands run against a mock in tests.
type Client interface {
	sandbox.CharacterInitializer
	sandbox.ConversationContinuer
}

// Wire paths, relative to the configured base URL.
const (
	InitializeCharactersPath = "/initializeCharacters"
	ContinueConversationPath = "/continueConversation"
)

// InitializeCharactersRequest is the body of POST /initializeCharacters.
type InitializeCharactersRequest struct {
	Count                 int  `json:"count"`
	UserEngagementEnabled bool `json:"userEngagementEnabled"`
}

// ContinueConversationRequest is the body of POST /continueConversation.
type ContinueConversationRequest struct {
	Conversation sandbox.Conversation `json:"conversation"`
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
